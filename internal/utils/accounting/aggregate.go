package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BuildTrialBalance aggregates entries per code. Zeroing legs of a close are excluded.
// With asOf set, balance-sheet codes run cumulatively through asOf and P/L codes cover asOf only.
func BuildTrialBalance(entries []domain.Entry, asOf *domain.Period) domain.TrialBalance {
	rows := make(map[domain.SubjectCode]*domain.TrialBalanceRow)
	for _, e := range entries {
		if e.Kind == domain.LegClosingZero {
			continue
		}
		if asOf != nil {
			p := e.Period()
			if asOf.Before(p) {
				continue
			}
			if !e.SubjectCode.IsBalanceSheet() && p != *asOf {
				continue
			}
		}
		row, ok := rows[e.SubjectCode]
		if !ok {
			row = &domain.TrialBalanceRow{
				SubjectCode: e.SubjectCode,
				Subject:     e.Subject,
				Category:    e.SubjectCode.Category(),
			}
			rows[e.SubjectCode] = row
		}
		debit, credit := SplitDebitCredit(e.Amount)
		row.Debit = row.Debit.Add(debit)
		row.Credit = row.Credit.Add(credit)
		row.Net = row.Net.Add(e.Amount)
	}

	tb := domain.TrialBalance{AsOf: asOf, Rows: make([]domain.TrialBalanceRow, 0, len(rows))}
	for _, row := range rows {
		tb.Rows = append(tb.Rows, *row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].SubjectCode < tb.Rows[j].SubjectCode })
	return WithTotals(tb)
}

// WithTotals fills the debit and credit column totals.
func WithTotals(tb domain.TrialBalance) domain.TrialBalance {
	tb.TotalDebit, tb.TotalCredit = decimal.Zero, decimal.Zero
	for _, r := range tb.Rows {
		tb.TotalDebit = tb.TotalDebit.Add(r.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(r.Credit)
	}
	return tb
}

// BuildSetSummaries renders the per-set view, ordered by date and set id.
func BuildSetSummaries(entries []domain.Entry) []domain.SetSummary {
	keys, groups := GroupSets(entries)
	SortSetKeys(keys)
	out := make([]domain.SetSummary, 0, len(keys))
	for _, k := range keys {
		legs := groups[k]
		out = append(out, domain.SetSummary{
			SetID:        k.SetID,
			Date:         k.Date,
			EntryCount:   len(legs),
			Balance:      Sum(legs),
			RenderedLegs: RenderLegs(legs),
		})
	}
	return out
}

// BuildCashflow nets the cash legs of every (date, set_id, remarks) group.
// Groups without cash movement are dropped.
func BuildCashflow(entries []domain.Entry) []domain.CashflowRow {
	type group struct {
		set     domain.SetKey
		remarks string
	}
	sums := make(map[group]decimal.Decimal)
	var order []group
	for _, e := range entries {
		g := group{set: e.SetKey(), remarks: e.Remarks}
		sum, seen := sums[g]
		if !seen {
			order = append(order, g)
		}
		if e.SubjectCode.IsCash() {
			sum = sum.Add(e.Amount)
		}
		sums[g] = sum
	}

	out := make([]domain.CashflowRow, 0, len(order))
	for _, g := range order {
		if sums[g].IsZero() {
			continue
		}
		out = append(out, domain.CashflowRow{Date: g.set.Date, SetID: g.set.SetID, Remarks: g.remarks, CashChange: sums[g]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SetID != b.SetID {
			return a.SetID < b.SetID
		}
		return a.Remarks < b.Remarks
	})
	return out
}

// BuildAccountBalances sums entries per code and month.
func BuildAccountBalances(entries []domain.Entry) []domain.AccountPeriodBalance {
	type key struct {
		code   domain.SubjectCode
		period domain.Period
	}
	rows := make(map[key]*domain.AccountPeriodBalance)
	for _, e := range entries {
		k := key{e.SubjectCode, e.Period()}
		row, ok := rows[k]
		if !ok {
			row = &domain.AccountPeriodBalance{SubjectCode: e.SubjectCode, Subject: e.Subject, Year: e.Year, Month: e.Month}
			rows[k] = row
		}
		row.EntryCount++
		row.Balance = row.Balance.Add(e.Amount)
	}
	out := make([]domain.AccountPeriodBalance, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := domain.Period{Year: out[i].Year, Month: out[i].Month}, domain.Period{Year: out[j].Year, Month: out[j].Month}
		if pi != pj {
			return pi.Before(pj)
		}
		return out[i].SubjectCode < out[j].SubjectCode
	})
	return out
}

// BuildTableSummary describes one relation.
func BuildTableSummary(relation domain.Relation, entries []domain.Entry) domain.TableSummary {
	s := domain.TableSummary{Relation: relation, RecordCount: len(entries)}
	sets := make(map[string]struct{})
	files := make(map[string]struct{})
	for i := range entries {
		e := entries[i]
		sets[e.SetID] = struct{}{}
		if e.SourceFile != "" {
			files[e.SourceFile] = struct{}{}
		}
		if s.EarliestDate == nil || e.Date.Before(*s.EarliestDate) {
			d := e.Date
			s.EarliestDate = &d
		}
		if s.LatestDate == nil || e.Date.After(*s.LatestDate) {
			d := e.Date
			s.LatestDate = &d
		}
	}
	s.UniqueSets = len(sets)
	s.SourceFiles = len(files)
	return s
}

// BuildSourceFiles lists staged source files.
func BuildSourceFiles(entries []domain.Entry) []domain.SourceFileSummary {
	rows := make(map[string]*domain.SourceFileSummary)
	for _, e := range entries {
		row, ok := rows[e.SourceFile]
		if !ok {
			row = &domain.SourceFileSummary{SourceFile: e.SourceFile, EarliestDate: e.Date, LatestDate: e.Date}
			rows[e.SourceFile] = row
		}
		row.EntryCount++
		if e.Date.Before(row.EarliestDate) {
			row.EarliestDate = e.Date
		}
		if e.Date.After(row.LatestDate) {
			row.LatestDate = e.Date
		}
	}
	out := make([]domain.SourceFileSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceFile < out[j].SourceFile })
	return out
}

// BuildRecentConfirmations groups legs confirmed at or after since by confirmation day, newest first.
func BuildRecentConfirmations(entries []domain.Entry, since time.Time) []domain.ConfirmationDay {
	type agg struct {
		row  domain.ConfirmationDay
		sets map[string]struct{}
	}
	days := make(map[time.Time]*agg)
	for _, e := range entries {
		if e.ConfirmedAt == nil || e.ConfirmedAt.Before(since) {
			continue
		}
		c := e.ConfirmedAt.UTC()
		day := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
		a, ok := days[day]
		if !ok {
			a = &agg{row: domain.ConfirmationDay{Date: day}, sets: make(map[string]struct{})}
			days[day] = a
		}
		a.row.EntryCount++
		a.row.Total = a.row.Total.Add(e.Amount.Abs())
		a.sets[e.SetID] = struct{}{}
	}
	out := make([]domain.ConfirmationDay, 0, len(days))
	for _, a := range days {
		a.row.SetCount = len(a.sets)
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// BuildFinancialStatus lists every code with a non-zero all-time balance, grouped by category order.
func BuildFinancialStatus(entries []domain.Entry) []domain.FinancialStatusRow {
	sums := make(map[domain.SubjectCode]decimal.Decimal)
	names := make(map[domain.SubjectCode]string)
	for _, e := range entries {
		sums[e.SubjectCode] = sums[e.SubjectCode].Add(e.Amount)
		if names[e.SubjectCode] == "" {
			names[e.SubjectCode] = e.Subject
		}
	}
	out := make([]domain.FinancialStatusRow, 0, len(sums))
	for code, sum := range sums {
		if sum.IsZero() {
			continue
		}
		out = append(out, domain.FinancialStatusRow{Category: code.Category(), SubjectCode: code, Subject: names[code], Balance: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectCode < out[j].SubjectCode })
	return out
}

// BuildMonthlyTrend returns income and expense for the latest months with P/L activity, oldest first.
// Closing legs are excluded so closed months still show their activity.
func BuildMonthlyTrend(entries []domain.Entry, months int) []domain.MonthlyTrendRow {
	rows := make(map[domain.Period]*domain.MonthlyTrendRow)
	for _, e := range entries {
		if e.Kind.IsClosing() || !e.SubjectCode.IsProfitAndLoss() {
			continue
		}
		p := e.Period()
		row, ok := rows[p]
		if !ok {
			row = &domain.MonthlyTrendRow{Period: p}
			rows[p] = row
		}
		amount := ReportingSign(e.SubjectCode, e.Amount)
		if e.SubjectCode.Category() == domain.CategoryIncome {
			row.Income = row.Income.Add(amount)
		} else {
			row.Expense = row.Expense.Add(amount)
		}
	}
	out := make([]domain.MonthlyTrendRow, 0, len(rows))
	for _, r := range rows {
		r.Net = r.Income.Sub(r.Expense)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	if months > 0 && len(out) > months {
		out = out[len(out)-months:]
	}
	return out
}

// BuildClosingStatus lists closed months and months with P/L activity but no close.
func BuildClosingStatus(entries []domain.Entry) domain.ClosingStatus {
	closed := make(map[domain.Period]*domain.ClosedPeriod)
	active := make(map[domain.Period]struct{})
	for _, e := range entries {
		p := e.Period()
		if e.Kind == domain.LegClosingZero {
			c, ok := closed[p]
			if !ok {
				c = &domain.ClosedPeriod{Period: p}
				closed[p] = c
			}
			c.ClosingLegs++
			c.Total = c.Total.Add(e.Amount)
			continue
		}
		if !e.Kind.IsClosing() && e.SubjectCode.IsProfitAndLoss() {
			active[p] = struct{}{}
		}
	}

	status := domain.ClosingStatus{Closed: []domain.ClosedPeriod{}, Unclosed: []domain.Period{}}
	for _, c := range closed {
		status.Closed = append(status.Closed, *c)
	}
	for p := range active {
		if _, ok := closed[p]; !ok {
			status.Unclosed = append(status.Unclosed, p)
		}
	}
	sort.Slice(status.Closed, func(i, j int) bool { return status.Closed[i].Period.Before(status.Closed[j].Period) })
	sort.Slice(status.Unclosed, func(i, j int) bool { return status.Unclosed[i].Before(status.Unclosed[j]) })
	return status
}
