package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
)

// SubjectCode is a ledger account code. Valid codes are three digits.
type SubjectCode int

const (
	MinSubjectCode SubjectCode = 100
	MaxSubjectCode SubjectCode = 999

	// DefaultRetainedEarningsCode receives the net result of a period close.
	DefaultRetainedEarningsCode SubjectCode = 300
)

// UnknownSubject is the name used for codes missing from the code table.
const UnknownSubject = "unknown"

// ErrInvalidSubjectCode is returned for codes outside MinSubjectCode..MaxSubjectCode.
var ErrInvalidSubjectCode = fmt.Errorf("%w: subject code out of range", apperrors.ErrValidation)

// Category groups subject codes by account type.
type Category string

const (
	CategoryAsset     Category = "ASSET"
	CategoryLiability Category = "LIABILITY"
	CategoryEquity    Category = "EQUITY"
	CategoryIncome    Category = "INCOME"
	CategoryExpense   Category = "EXPENSE"
	CategoryOther     Category = "OTHER"
)

// NewSubjectCode validates the range of a raw code.
func NewSubjectCode(v int) (SubjectCode, error) {
	c := SubjectCode(v)
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSubjectCode, v)
	}
	return c, nil
}

// ParseSubjectCode parses a decimal string such as "500" or "050".
func ParseSubjectCode(s string) (SubjectCode, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubjectCode, s)
	}
	return NewSubjectCode(v)
}

func (c SubjectCode) Valid() bool {
	return c >= MinSubjectCode && c <= MaxSubjectCode
}

// IsCash reports whether the code is a cash or bank account (100-102).
func (c SubjectCode) IsCash() bool {
	return c >= 100 && c <= 102
}

// IsProfitAndLoss reports whether the code is an income or expense account.
func (c SubjectCode) IsProfitAndLoss() bool {
	return c >= 400 && c <= 599
}

// IsBalanceSheet reports whether the code carries a running balance across periods.
func (c SubjectCode) IsBalanceSheet() bool {
	return c < 400
}

func (c SubjectCode) Category() Category {
	switch {
	case c >= 100 && c <= 199:
		return CategoryAsset
	case c >= 200 && c <= 299:
		return CategoryLiability
	case c >= 300 && c <= 399:
		return CategoryEquity
	case c >= 400 && c <= 499:
		return CategoryIncome
	case c >= 500 && c <= 599:
		return CategoryExpense
	default:
		return CategoryOther
	}
}

// String renders the code zero-padded for display.
func (c SubjectCode) String() string {
	return fmt.Sprintf("%03d", int(c))
}
