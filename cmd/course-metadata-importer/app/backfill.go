package app

import (
	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Import metadata for every known course run",
	Long: `Import catalog metadata for every course run in the local course overviews,
overwriting stored details.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	addConfigFlag(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.importer.Backfill(ctx)
	if err != nil {
		return err
	}

	logResult(result)
	return nil
}
