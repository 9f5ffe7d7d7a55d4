package commands

import (
	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

func newValidateCommand(a *app) *cobra.Command {
	var ledger bool
	var period string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every transaction set sums to zero",
		Long: `Check that every transaction set sums to zero.

Staging is checked by default; --ledger checks the permanent ledger instead.
Exits 1 when any set is unbalanced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.EntryFilter
			if period != "" {
				p, err := domain.ParsePeriod(period)
				if err != nil {
					return &ExitError{Code: 2, Err: err}
				}
				filter.From, filter.To = &p, &p
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			var report *domain.ValidationReport
			if ledger {
				report, err = rt.Services.Validation.ValidateLedger(ctx, filter)
			} else {
				report, err = rt.Services.Validation.ValidateStaging(ctx)
			}
			if err != nil {
				return err
			}
			if err := renderValidation(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Balanced {
				return &ExitError{Code: 1, Err: &domain.UnbalancedSetsError{Report: report}}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ledger, "ledger", false, "validate the permanent ledger instead of staging")
	cmd.Flags().StringVar(&period, "period", "", "limit a ledger check to one month (YYYY-MM)")

	return cmd
}
