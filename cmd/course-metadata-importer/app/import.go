package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/course-metadata-importer/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import metadata for enrollable course runs",
	Long: `Import catalog metadata for every course run that is still enrollable and has
no stored details yet. With --keys only the given course runs are imported,
whether or not they already have details.

Examples:
  course-metadata-importer import --config config.yaml
  course-metadata-importer import --config config.yaml --keys course-v1:edX+DemoX+Demo_Course`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	addConfigFlag(importCmd)
	importCmd.Flags().StringSlice("keys", nil, "Comma separated course run keys to import")
}

func runImport(cmd *cobra.Command, _ []string) error {
	keys, err := cmd.Flags().GetStringSlice("keys")
	if err != nil {
		return fmt.Errorf("failed to get keys flag: %w", err)
	}

	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	var result *importer.Result
	if len(keys) > 0 {
		result, err = rt.importer.ImportSpecific(ctx, keys)
	} else {
		result, err = rt.importer.ImportAll(ctx)
	}
	if err != nil {
		return err
	}

	logResult(result)
	return nil
}
