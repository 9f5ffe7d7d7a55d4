package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageRequest carries parsed rows from the import collaborator into staging.
type StageRequest struct {
	SourceFile string
	Entries    []Entry
	// Clear empties staging before appending.
	Clear bool
	// Force replaces rows previously staged from the same source file.
	Force bool
}

// StageResult summarizes one stage call.
type StageResult struct {
	BatchID    string `json:"batchID"`
	SourceFile string `json:"sourceFile"`
	Staged     int    `json:"staged"`
	Cleared    int64  `json:"cleared"`
	Replaced   int64  `json:"replaced"`
}

// ConfirmResult summarizes a promotion of staging into the permanent ledger.
type ConfirmResult struct {
	Promoted          int       `json:"promoted"`
	Replaced          int64     `json:"replaced"`
	DuplicatesDropped int       `json:"duplicatesDropped"`
	ConfirmedAt       time.Time `json:"confirmedAt"`
	SourceFiles       []string  `json:"sourceFiles"`
	// FileWarning is set when the post-commit upload move failed. The ledger is confirmed regardless.
	FileWarning error `json:"-"`
}

// StagedDuplicate is a staged entry whose id already exists in the permanent ledger.
type StagedDuplicate struct {
	EntryID string          `json:"entryID"`
	SetID   string          `json:"setID"`
	Date    time.Time       `json:"date"`
	Remarks string          `json:"remarks"`
	Amount  decimal.Decimal `json:"amount"`
}

// ConfirmPreview predicts the effect of the next confirmation.
type ConfirmPreview struct {
	Staged                  int               `json:"staged"`
	ReplacingExisting       int               `json:"replacingExisting"`
	DuplicatesWithinStaging int               `json:"duplicatesWithinStaging"`
	Duplicates              []StagedDuplicate `json:"duplicates"`
	Validation              *ValidationReport `json:"validation"`
}

// PeriodState is the closing state of one month.
type PeriodState string

const (
	PeriodOpen   PeriodState = "OPEN"
	PeriodClosed PeriodState = "CLOSED"
)

// CloseOutcome tells callers what a close invocation did.
type CloseOutcome string

const (
	CloseOutcomeClosed         CloseOutcome = "CLOSED"
	CloseOutcomeReclosed       CloseOutcome = "RECLOSED"
	CloseOutcomeAlreadyClosed  CloseOutcome = "ALREADY_CLOSED"
	CloseOutcomeNothingToClose CloseOutcome = "NOTHING_TO_CLOSE"
)

// AccountAmount is a per-code sum.
type AccountAmount struct {
	SubjectCode SubjectCode     `json:"subjectCode"`
	Subject     string          `json:"subject"`
	Amount      decimal.Decimal `json:"amount"`
}

// CloseResult reports the legs written by one close invocation.
type CloseResult struct {
	Period      Period       `json:"period"`
	Outcome     CloseOutcome `json:"outcome"`
	SetID       string       `json:"setID,omitempty"`
	DeletedLegs int64        `json:"deletedLegs"`
	// NetIncome is the signed sum of the month's P/L balances, equal to the transfer leg amount.
	NetIncome decimal.Decimal `json:"netIncome"`
	Legs      []Entry         `json:"legs"`
}

// Profit is the net result in reporting sign: positive for a profit.
func (r CloseResult) Profit() decimal.Decimal {
	return r.NetIncome.Neg()
}
