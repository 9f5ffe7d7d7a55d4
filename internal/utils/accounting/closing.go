package accounting

import (
	"sort"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProfitAndLossBalances sums the month's P/L legs per code, skipping zeroing legs of an earlier close.
// Codes whose sum is exactly zero are dropped.
func ProfitAndLossBalances(entries []domain.Entry, period domain.Period) []domain.AccountAmount {
	sums := make(map[domain.SubjectCode]decimal.Decimal)
	names := make(map[domain.SubjectCode]string)
	for _, e := range entries {
		if !e.SubjectCode.IsProfitAndLoss() || e.Period() != period || e.Kind == domain.LegClosingZero {
			continue
		}
		sums[e.SubjectCode] = sums[e.SubjectCode].Add(e.Amount)
		if names[e.SubjectCode] == "" {
			names[e.SubjectCode] = e.Subject
		}
	}

	out := make([]domain.AccountAmount, 0, len(sums))
	for code, sum := range sums {
		if sum.IsZero() {
			continue
		}
		out = append(out, domain.AccountAmount{SubjectCode: code, Subject: names[code], Amount: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubjectCode < out[j].SubjectCode })
	return out
}

// BuildClosingLegs turns the month's P/L balances into the closing batch: one zeroing leg per code and,
// when the net is non-zero, one transfer leg on the retained-earnings code. The legs always sum to zero.
func BuildClosingLegs(period domain.Period, balances []domain.AccountAmount, retained domain.AccountAmount) ([]domain.Entry, decimal.Decimal) {
	setID := domain.ClosingSetID(period)
	date := period.LastDay()

	netIncome := decimal.Zero
	legs := make([]domain.Entry, 0, len(balances)+1)
	for _, b := range balances {
		netIncome = netIncome.Add(b.Amount)
		legs = append(legs, domain.Entry{
			EntryID:     domain.ClosingEntryID(period, b.SubjectCode),
			SetID:       setID,
			Date:        date,
			SubjectCode: b.SubjectCode,
			Subject:     b.Subject,
			Amount:      b.Amount.Neg(),
			Remarks:     domain.RemarksClose,
			Kind:        domain.LegClosingZero,
			Year:        period.Year,
			Month:       period.Month,
		})
	}

	if !netIncome.IsZero() {
		legs = append(legs, domain.Entry{
			EntryID:     domain.ClosingEntryID(period, retained.SubjectCode),
			SetID:       setID,
			Date:        date,
			SubjectCode: retained.SubjectCode,
			Subject:     retained.Subject,
			Amount:      netIncome,
			Remarks:     domain.RemarksLossAndBenefit,
			Kind:        domain.LegClosingTransfer,
			Year:        period.Year,
			Month:       period.Month,
		})
	}
	return legs, netIncome
}
