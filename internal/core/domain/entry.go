package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LegKind records why a leg exists. Business logic keys off the kind, never off remarks text.
type LegKind string

const (
	LegImport          LegKind = "IMPORT"
	LegClosingZero     LegKind = "CLOSING_ZERO"
	LegClosingTransfer LegKind = "CLOSING_TRANSFER"
	LegCarryForward    LegKind = "CARRY_FORWARD"
)

// Remarks written on system-generated legs. Kept for exports and older tooling.
const (
	RemarksClose          = "close"
	RemarksLossAndBenefit = "loss and benefit"

	carryOverMarker = "carry over"
)

// ClosingSetPrefix is reserved for set ids generated by period close.
const ClosingSetPrefix = "CLOSE-"

// ErrReservedSetID is returned when an imported set id uses the closing prefix.
var ErrReservedSetID = fmt.Errorf("%w: set id uses reserved prefix %q", apperrors.ErrValidation, ClosingSetPrefix)

// ErrReservedEntryID is returned when an imported entry id uses the closing prefix.
var ErrReservedEntryID = fmt.Errorf("%w: entry id uses reserved prefix %q", apperrors.ErrValidation, ClosingSetPrefix)

// CheckImportIDs rejects set and entry ids that could collide with a closing batch.
func CheckImportIDs(setID, entryID string) error {
	if strings.HasPrefix(setID, ClosingSetPrefix) {
		return fmt.Errorf("%w: %s", ErrReservedSetID, setID)
	}
	if strings.HasPrefix(entryID, ClosingSetPrefix) {
		return fmt.Errorf("%w: %s", ErrReservedEntryID, entryID)
	}
	return nil
}

// ParseLegKind accepts the stored names case-insensitively.
func ParseLegKind(s string) (LegKind, error) {
	k := LegKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case LegImport, LegClosingZero, LegClosingTransfer, LegCarryForward:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown leg kind %q", apperrors.ErrValidation, s)
}

// InferLegKind derives the kind of an imported leg from its remarks.
func InferLegKind(remarks string) LegKind {
	if strings.Contains(strings.ToLower(remarks), carryOverMarker) {
		return LegCarryForward
	}
	return LegImport
}

// IsClosing reports whether the leg was written by period close.
func (k LegKind) IsClosing() bool {
	return k == LegClosingZero || k == LegClosingTransfer
}

// Entry is one leg of a transaction set. Amounts are signed: debit positive, credit negative.
type Entry struct {
	EntryID     string          `json:"entryID"`
	SetID       string          `json:"setID"`
	Date        time.Time       `json:"date"`
	SubjectCode SubjectCode     `json:"subjectCode"`
	Subject     string          `json:"subject"`
	Amount      decimal.Decimal `json:"amount"`
	Remarks     string          `json:"remarks"`
	Kind        LegKind         `json:"kind"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`

	// Staging only.
	SourceFile string    `json:"sourceFile,omitempty"`
	BatchID    string    `json:"batchID,omitempty"`
	Seq        int64     `json:"seq,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`

	// Permanent only.
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
}

// Period returns the accounting month of the entry.
func (e Entry) Period() Period {
	return Period{Year: e.Year, Month: e.Month}
}

// SetKey is the grouping key of a transaction set.
type SetKey struct {
	Date  time.Time
	SetID string
}

func (e Entry) SetKey() SetKey {
	return SetKey{Date: e.Date, SetID: e.SetID}
}

// Holds reports whether e is a leg of the set.
func (k SetKey) Holds(e Entry) bool {
	return e.SetID == k.SetID && e.Date.Equal(k.Date)
}

// FormatEntryID builds the id of the seq-th leg (1-based) of a set.
func FormatEntryID(setID string, seq int) string {
	return fmt.Sprintf("%s_%03d", setID, seq)
}

// ClosingSetID is the deterministic set id of the closing batch of a period.
func ClosingSetID(p Period) string {
	return ClosingSetPrefix + p.String()
}

// ClosingEntryID is the id of the closing leg for code within the period's batch.
func ClosingEntryID(p Period, code SubjectCode) string {
	return fmt.Sprintf("%s_%s", ClosingSetID(p), code)
}

// EntryFilter narrows ledger queries. Zero values mean no constraint.
type EntryFilter struct {
	From  *Period
	To    *Period
	SetID string
	Code  SubjectCode
	Kinds []LegKind
}

// Matches applies the filter in memory.
func (f EntryFilter) Matches(e Entry) bool {
	p := e.Period()
	if f.From != nil && p.Before(*f.From) {
		return false
	}
	if f.To != nil && f.To.Before(p) {
		return false
	}
	if f.SetID != "" && e.SetID != f.SetID {
		return false
	}
	if f.Code != 0 && e.SubjectCode != f.Code {
		return false
	}
	if len(f.Kinds) > 0 {
		for _, k := range f.Kinds {
			if e.Kind == k {
				return true
			}
		}
		return false
	}
	return true
}
