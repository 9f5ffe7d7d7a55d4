package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

func newConfirmCommand(a *app) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Move staging into the permanent ledger",
		Long: `Move staging into the permanent ledger.

Every staged set must balance; otherwise nothing is written and the command
exits 1 with the unbalanced sets. Staged rows whose entry id is already in the
ledger replace the old row. Confirmed source files are then moved out of the
uploads directory; a failed move is reported as a warning only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			if preview {
				p, err := rt.Services.Confirmation.Preview(ctx)
				if err != nil {
					return err
				}
				return renderPreview(cmd, p)
			}

			result, err := rt.Services.Confirmation.Confirm(ctx)
			var unbalanced *domain.UnbalancedSetsError
			if errors.As(err, &unbalanced) {
				if rerr := renderValidation(out, unbalanced.Report); rerr != nil {
					return rerr
				}
				return &ExitError{Code: 1, Err: err}
			}
			if err != nil {
				return err
			}

			if result.Promoted == 0 {
				fmt.Fprintln(out, "nothing staged to confirm")
				return nil
			}
			fmt.Fprintf(out, "confirmed %d entries at %s\n", result.Promoted, result.ConfirmedAt.Format("2006-01-02 15:04:05"))
			if result.Replaced > 0 {
				fmt.Fprintf(out, "replaced %d existing ledger entries\n", result.Replaced)
			}
			if result.DuplicatesDropped > 0 {
				fmt.Fprintf(out, "dropped %d duplicate staged rows (latest kept)\n", result.DuplicatesDropped)
			}
			if result.FileWarning != nil {
				warnf(cmd, "ledger confirmed but source files were not moved: %v", result.FileWarning)
				warnf(cmd, "run `ledger files sync` to retry")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "show what confirm would do without writing")

	return cmd
}

func renderPreview(cmd *cobra.Command, p *domain.ConfirmPreview) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "staged entries:            %d\n", p.Staged)
	fmt.Fprintf(out, "replacing ledger entries:  %d\n", p.ReplacingExisting)
	fmt.Fprintf(out, "duplicates within staging: %d\n", p.DuplicatesWithinStaging)

	if len(p.Duplicates) > 0 {
		fmt.Fprintln(out)
		if err := duplicatesTable(p.Duplicates).writeText(out); err != nil {
			return err
		}
	}

	fmt.Fprintln(out)
	return renderValidation(out, p.Validation)
}
