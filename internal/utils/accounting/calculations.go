package accounting

import (
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitDebitCredit returns the debit (positive) and credit (absolute negative) side of a signed amount.
// Ledger convention: DEBIT -> positive (+), CREDIT -> negative (-).
func SplitDebitCredit(amount decimal.Decimal) (debit, credit decimal.Decimal) {
	if amount.IsPositive() {
		return amount, decimal.Zero
	}
	return decimal.Zero, amount.Abs()
}

// Sum adds up the amounts of entries.
func Sum(entries []domain.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// WithinTolerance reports whether |amount| <= tolerance.
func WithinTolerance(amount, tolerance decimal.Decimal) bool {
	return amount.Abs().LessThanOrEqual(tolerance)
}

// ReportingSign flips a ledger amount so income reads positive, as shown on P/L statements.
func ReportingSign(code domain.SubjectCode, amount decimal.Decimal) decimal.Decimal {
	switch code.Category() {
	case domain.CategoryLiability, domain.CategoryEquity, domain.CategoryIncome:
		return amount.Neg()
	default:
		return amount
	}
}
