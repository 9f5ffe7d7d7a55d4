package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

func newCloseCommand(a *app) *cobra.Command {
	var reclose bool

	cmd := &cobra.Command{
		Use:   "close <YYYY-MM>",
		Short: "Close a month into retained earnings",
		Long: `Close a month into retained earnings.

Each income and expense account (codes 400-599) with a non-zero balance gets a
zeroing leg, and the net result is transferred to the retained earnings code.
A month that is already closed is left alone unless --reclose is given, which
replaces its closing legs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := domain.ParsePeriod(args[0])
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.Services.PeriodClose.Close(ctx, period, reclose)
			if err != nil {
				return err
			}
			return renderClose(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&reclose, "reclose", false, "replace the closing legs of an already closed month")

	return cmd
}

func renderClose(cmd *cobra.Command, r *domain.CloseResult) error {
	out := cmd.OutOrStdout()
	switch r.Outcome {
	case domain.CloseOutcomeAlreadyClosed:
		fmt.Fprintf(out, "%s is already closed; use --reclose to rebuild its closing entries\n", r.Period)
		return nil
	case domain.CloseOutcomeNothingToClose:
		if r.DeletedLegs > 0 {
			fmt.Fprintf(out, "removed %d previous closing legs\n", r.DeletedLegs)
		}
		fmt.Fprintf(out, "nothing to close for %s\n", r.Period)
		return nil
	}

	if r.DeletedLegs > 0 {
		fmt.Fprintf(out, "removed %d previous closing legs\n", r.DeletedLegs)
	}
	if err := entriesTable(fmt.Sprintf("Closing set %s", r.SetID), r.Legs).writeText(out); err != nil {
		return err
	}
	label := "profit"
	if r.Profit().IsNegative() {
		label = "loss"
	}
	fmt.Fprintf(out, "%s %s: %s %s\n", r.Period, r.Outcome, label, money(r.Profit().Abs()))
	return nil
}

func newPeriodCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "period <YYYY-MM>",
		Short: "Show whether a month is open or closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := domain.ParsePeriod(args[0])
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			state, err := rt.Services.PeriodClose.State(ctx, period)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", period, state)
			return nil
		},
	}
}
