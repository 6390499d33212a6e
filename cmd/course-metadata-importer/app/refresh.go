package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/course-metadata-importer/internal/catalog"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh stored details of course runs updated in the catalog",
	Long: `Page through the courses the catalog reports as updated since the last
successful refresh and rewrite the stored details of their course runs.

The first refresh has no previous timestamp to resume from and needs --since.

Examples:
  course-metadata-importer refresh --config config.yaml
  course-metadata-importer refresh --config config.yaml --since 2024-01-01T00:00:00Z`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	addConfigFlag(refreshCmd)
	refreshCmd.Flags().String("since", "", "Refresh courses updated after this time (RFC 3339 or YYYY-MM-DD)")
}

// parseSince accepts RFC 3339, the catalog timestamp format or a plain date
func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, catalog.TimestampFormat, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --since %q: expected RFC 3339 or YYYY-MM-DD", value)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	sinceFlag, err := cmd.Flags().GetString("since")
	if err != nil {
		return fmt.Errorf("failed to get since flag: %w", err)
	}
	since, err := parseSince(sinceFlag)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.importer.Refresh(ctx, since)
	if err != nil {
		return err
	}

	logResult(result)
	return nil
}
