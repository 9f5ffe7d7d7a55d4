package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFilesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded source files",
	}
	cmd.AddCommand(newFilesSyncCommand(a))
	return cmd
}

func newFilesSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Move uploads whose entries are confirmed into the confirmed directory",
		Long: `Move uploads whose entries are confirmed into the confirmed directory.

confirm moves files on a best-effort basis; sync retries any move that failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			moved, err := rt.Services.Confirmation.SyncUploads(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(moved) == 0 {
				fmt.Fprintln(out, "no uploads waiting")
				return nil
			}
			for _, name := range moved {
				fmt.Fprintf(out, "moved %s\n", name)
			}
			return nil
		},
	}
}
