package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/dto"
)

func newEntriesCommand(a *app) *cobra.Command {
	var params dto.ListEntriesParams
	var format string

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List confirmed ledger entries",
		Long: `List confirmed ledger entries one page at a time.

When more entries remain, the token for the next page is printed on stderr;
pass it back with --next.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if params.Code != 0 {
				if _, err := domain.NewSubjectCode(params.Code); err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			}
			filter, err := params.ToFilter()
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			entries, next, err := rt.Services.Reporting.ListEntries(ctx, filter, params.Limit, params.Token())
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), dto.ListEntriesResponse{Entries: entries, NextToken: next})
			}
			if err := render(cmd.OutOrStdout(), format, entries, entriesTable("Ledger entries", entries)); err != nil {
				return err
			}
			if next != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "more entries: --next %s\n", *next)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "", "first month (YYYY-MM)")
	cmd.Flags().StringVar(&params.To, "to", "", "last month (YYYY-MM)")
	cmd.Flags().StringVar(&params.SetID, "set", "", "only entries of this transaction set")
	cmd.Flags().IntVar(&params.Code, "code", 0, "only entries posted to this subject code")
	cmd.Flags().StringVar(&params.Kind, "kind", "", "comma-separated leg kinds, e.g. IMPORT,CLOSING_TRANSFER")
	cmd.Flags().IntVar(&params.Limit, "limit", 50, "entries per page")
	cmd.Flags().StringVar(&params.NextToken, "next", "", "page token printed by the previous call")

	return cmd
}
