package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

var statusViews = []string{"summary", "duplicates", "sources", "closing", "financial", "trend", "recent", "sets", "cashflow", "balances"}

type statusOptions struct {
	format   string
	months   int
	days     int
	relation string
	from     string
	to       string
}

func newStatusCommand(a *app) *cobra.Command {
	opts := statusOptions{}

	cmd := &cobra.Command{
		Use:       "status [" + strings.Join(statusViews, "|") + "]",
		Short:     "Show staging and ledger reports",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: statusViews,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := "summary"
			if len(args) == 1 {
				view = args[0]
			}
			if err := checkFormat(opts.format); err != nil {
				return err
			}

			rt, ctx, err := a.open(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			value, tables, err := buildStatusView(ctx, rt, view, opts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.format, value, tables...)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text, markdown or json")
	cmd.Flags().IntVar(&opts.months, "months", 12, "months shown by the trend view")
	cmd.Flags().IntVar(&opts.days, "days", 7, "days shown by the recent view")
	cmd.Flags().StringVar(&opts.relation, "relation", "staging", "relation shown by the sets and cashflow views: staging or ledger")
	cmd.Flags().StringVar(&opts.from, "from", "", "first month (YYYY-MM) for the sets, cashflow and balances views")
	cmd.Flags().StringVar(&opts.to, "to", "", "last month (YYYY-MM) for the sets, cashflow and balances views")

	return cmd
}

func buildStatusView(ctx context.Context, rt *Runtime, view string, opts statusOptions) (any, []table, error) {
	reporting := rt.Services.Reporting

	switch view {
	case "summary":
		summaries, err := reporting.TableSummary(ctx)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Tables", headers: []string{"RELATION", "RECORDS", "SETS", "FILES", "EARLIEST", "LATEST"}}
		for _, s := range summaries {
			t.rows = append(t.rows, []string{
				string(s.Relation), fmt.Sprint(s.RecordCount), fmt.Sprint(s.UniqueSets), fmt.Sprint(s.SourceFiles),
				optionalDate(s.EarliestDate), optionalDate(s.LatestDate),
			})
		}
		return summaries, []table{t}, nil

	case "duplicates":
		preview, err := rt.Services.Confirmation.Preview(ctx)
		if err != nil {
			return nil, nil, err
		}
		return preview.Duplicates, []table{duplicatesTable(preview.Duplicates)}, nil

	case "sources":
		files, err := reporting.SourceFiles(ctx)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Staged source files", headers: []string{"FILE", "ENTRIES", "EARLIEST", "LATEST"}}
		for _, f := range files {
			t.rows = append(t.rows, []string{f.SourceFile, fmt.Sprint(f.EntryCount), dateString(f.EarliestDate), dateString(f.LatestDate)})
		}
		return files, []table{t}, nil

	case "closing":
		status, err := reporting.ClosingStatus(ctx)
		if err != nil {
			return nil, nil, err
		}
		closed := table{title: "Closed months", headers: []string{"PERIOD", "LEGS", "TOTAL"}}
		for _, c := range status.Closed {
			closed.rows = append(closed.rows, []string{c.Period.String(), fmt.Sprint(c.ClosingLegs), money(c.Total)})
		}
		unclosed := table{title: "Months with unclosed income or expense", headers: []string{"PERIOD"}}
		for _, p := range status.Unclosed {
			unclosed.rows = append(unclosed.rows, []string{p.String()})
		}
		return status, []table{closed, unclosed}, nil

	case "financial":
		rows, err := reporting.FinancialStatus(ctx)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Financial status", headers: []string{"CATEGORY", "CODE", "SUBJECT", "BALANCE"}}
		for _, r := range rows {
			t.rows = append(t.rows, []string{string(r.Category), r.SubjectCode.String(), r.Subject, money(r.Balance)})
		}
		return rows, []table{t}, nil

	case "trend":
		rows, err := reporting.MonthlyTrend(ctx, opts.months)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Monthly trend", headers: []string{"PERIOD", "INCOME", "EXPENSE", "NET"}}
		for _, r := range rows {
			t.rows = append(t.rows, []string{r.Period.String(), money(r.Income), money(r.Expense), money(r.Net)})
		}
		return rows, []table{t}, nil

	case "recent":
		days, err := reporting.RecentConfirmations(ctx, opts.days)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: fmt.Sprintf("Confirmations in the last %d days", opts.days), headers: []string{"DATE", "ENTRIES", "SETS", "TOTAL"}}
		for _, d := range days {
			t.rows = append(t.rows, []string{dateString(d.Date), fmt.Sprint(d.EntryCount), fmt.Sprint(d.SetCount), money(d.Total)})
		}
		return days, []table{t}, nil

	case "sets":
		relation, err := domain.ParseRelation(opts.relation)
		if err != nil {
			return nil, nil, &ExitError{Code: 2, Err: err}
		}
		var filter domain.EntryFilter
		if filter.From, filter.To, err = periodRange(opts.from, opts.to); err != nil {
			return nil, nil, err
		}
		sets, err := reporting.SetSummaries(ctx, relation, filter)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Transaction sets (" + string(relation) + ")", headers: []string{"DATE", "SET", "LEGS", "BALANCE", "ENTRIES"}}
		for _, s := range sets {
			t.rows = append(t.rows, []string{dateString(s.Date), s.SetID, fmt.Sprint(s.EntryCount), money(s.Balance), s.RenderedLegs})
		}
		return sets, []table{t}, nil

	case "cashflow":
		relation, err := domain.ParseRelation(opts.relation)
		if err != nil {
			return nil, nil, &ExitError{Code: 2, Err: err}
		}
		var filter domain.EntryFilter
		if filter.From, filter.To, err = periodRange(opts.from, opts.to); err != nil {
			return nil, nil, err
		}
		rows, err := reporting.Cashflow(ctx, relation, filter)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Cash movement (" + string(relation) + ")", headers: []string{"DATE", "SET", "REMARKS", "CASH CHANGE"}}
		for _, r := range rows {
			t.rows = append(t.rows, []string{dateString(r.Date), r.SetID, r.Remarks, money(r.CashChange)})
		}
		return rows, []table{t}, nil

	case "balances":
		from, to, err := periodRange(opts.from, opts.to)
		if err != nil {
			return nil, nil, err
		}
		balances, err := reporting.AccountBalances(ctx, from, to)
		if err != nil {
			return nil, nil, err
		}
		t := table{title: "Account balances", headers: []string{"PERIOD", "CODE", "SUBJECT", "ENTRIES", "BALANCE"}}
		for _, b := range balances {
			p := domain.Period{Year: b.Year, Month: b.Month}
			t.rows = append(t.rows, []string{p.String(), b.SubjectCode.String(), b.Subject, fmt.Sprint(b.EntryCount), money(b.Balance)})
		}
		return balances, []table{t}, nil
	}

	return nil, nil, &ExitError{Code: 2, Err: fmt.Errorf("unknown view %q: use one of %s", view, strings.Join(statusViews, ", "))}
}

func periodRange(from, to string) (*domain.Period, *domain.Period, error) {
	var lo, hi *domain.Period
	if from != "" {
		p, err := domain.ParsePeriod(from)
		if err != nil {
			return nil, nil, &ExitError{Code: 2, Err: err}
		}
		lo = &p
	}
	if to != "" {
		p, err := domain.ParsePeriod(to)
		if err != nil {
			return nil, nil, &ExitError{Code: 2, Err: err}
		}
		hi = &p
	}
	return lo, hi, nil
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return dateString(*t)
}

func duplicatesTable(dups []domain.StagedDuplicate) table {
	t := table{title: "Staged entries already in the ledger", headers: []string{"ENTRY", "SET", "DATE", "AMOUNT", "REMARKS"}}
	for _, d := range dups {
		t.rows = append(t.rows, []string{d.EntryID, d.SetID, dateString(d.Date), money(d.Amount), d.Remarks})
	}
	return t
}
