package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

func newTrialBalanceCommand(a *app) *cobra.Command {
	var period, format, xlsxPath string

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print debit, credit and net per subject code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			var asOf *domain.Period
			if period != "" {
				p, err := domain.ParsePeriod(period)
				if err != nil {
					return &ExitError{Code: 2, Err: err}
				}
				asOf = &p
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			tb, err := rt.Services.Reporting.TrialBalance(ctx, asOf)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := writeTrialBalanceXLSX(xlsxPath, tb); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
			}
			return render(cmd.OutOrStdout(), format, tb, trialBalanceTable(tb))
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "include months up to and including YYYY-MM")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, markdown or json")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the report to an Excel workbook")

	return cmd
}
