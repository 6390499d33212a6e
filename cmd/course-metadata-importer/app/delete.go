package app

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete KEY...",
	Short: "Delete stored details of course runs",
	Long: `Delete the stored details of the given course runs, for example after a
course run was removed. Keys without stored details are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	addConfigFlag(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	deleted, err := rt.importer.Delete(ctx, args)
	if err != nil {
		return err
	}

	slog.Info("Deleted course details", "requested", len(args), "deleted", deleted)
	return nil
}
