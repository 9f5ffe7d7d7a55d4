package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	SubjectCode SubjectCode     `json:"subjectCode"`
	Subject     string          `json:"subject"`
	Category    Category        `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"`
}

// TrialBalance is the full report with column totals.
type TrialBalance struct {
	AsOf        *Period           `json:"asOf,omitempty"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// SetSummary is the per-set aggregation view.
type SetSummary struct {
	SetID        string          `json:"setID"`
	Date         time.Time       `json:"date"`
	EntryCount   int             `json:"entryCount"`
	Balance      decimal.Decimal `json:"balance"`
	RenderedLegs string          `json:"renderedLegs"`
}

// CashflowRow is the net cash movement of one set and remark.
type CashflowRow struct {
	Date       time.Time       `json:"date"`
	SetID      string          `json:"setID"`
	Remarks    string          `json:"remarks"`
	CashChange decimal.Decimal `json:"cashChange"`
}

// AccountPeriodBalance is the per-account-per-period view.
type AccountPeriodBalance struct {
	SubjectCode SubjectCode     `json:"subjectCode"`
	Subject     string          `json:"subject"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	EntryCount  int             `json:"entryCount"`
	Balance     decimal.Decimal `json:"balance"`
}

// Relation names the two entry collections.
type Relation string

const (
	RelationStaging Relation = "staging"
	RelationLedger  Relation = "ledger"
)

var ErrInvalidRelation = fmt.Errorf("%w: relation must be staging or ledger", apperrors.ErrValidation)

func ParseRelation(s string) (Relation, error) {
	switch r := Relation(s); r {
	case RelationStaging, RelationLedger:
		return r, nil
	case "":
		return RelationLedger, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRelation, s)
}

// TableSummary describes the contents of one relation.
type TableSummary struct {
	Relation     Relation   `json:"relation"`
	RecordCount  int        `json:"recordCount"`
	UniqueSets   int        `json:"uniqueSets"`
	SourceFiles  int        `json:"sourceFiles"`
	EarliestDate *time.Time `json:"earliestDate,omitempty"`
	LatestDate   *time.Time `json:"latestDate,omitempty"`
}

// SourceFileSummary lists what a staged file contributed.
type SourceFileSummary struct {
	SourceFile   string    `json:"sourceFile"`
	EntryCount   int       `json:"entryCount"`
	EarliestDate time.Time `json:"earliestDate"`
	LatestDate   time.Time `json:"latestDate"`
}

// ConfirmationDay groups confirmed legs by confirmation date.
type ConfirmationDay struct {
	Date       time.Time       `json:"date"`
	EntryCount int             `json:"entryCount"`
	SetCount   int             `json:"setCount"`
	Total      decimal.Decimal `json:"total"`
}

// FinancialStatusRow is one non-zero account balance with its category.
type FinancialStatusRow struct {
	Category    Category        `json:"category"`
	SubjectCode SubjectCode     `json:"subjectCode"`
	Subject     string          `json:"subject"`
	Balance     decimal.Decimal `json:"balance"`
}

// MonthlyTrendRow holds income and expense of one month in reporting sign.
type MonthlyTrendRow struct {
	Period  Period          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// ClosedPeriod is a month with closing legs.
type ClosedPeriod struct {
	Period      Period          `json:"period"`
	ClosingLegs int             `json:"closingLegs"`
	Total       decimal.Decimal `json:"total"`
}

// ClosingStatus lists closed months and months with unclosed P/L activity.
type ClosingStatus struct {
	Closed   []ClosedPeriod `json:"closed"`
	Unclosed []Period       `json:"unclosed"`
}
