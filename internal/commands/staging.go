package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStagingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staging",
		Short: "Inspect or reset the staging area",
	}
	cmd.AddCommand(newStagingClearCommand(a))
	return cmd
}

func newStagingClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard every staged entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := rt.Services.Staging.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d staged entries\n", n)
			return nil
		},
	}
}
