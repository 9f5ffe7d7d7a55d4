package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance is the largest |Σamount| a set may carry and still count as balanced.
var DefaultBalanceTolerance = decimal.RequireFromString("0.01")

// UnbalancedSet describes one set that failed the zero-sum check.
type UnbalancedSet struct {
	SetID           string          `json:"setID"`
	Date            time.Time       `json:"date"`
	EntryCount      int             `json:"entryCount"`
	Balance         decimal.Decimal `json:"balance"`
	DistinctRemarks []string        `json:"distinctRemarks"`
	RenderedLegs    string          `json:"renderedLegs"`
}

// ValidationReport is the result of a balance check over a collection of entries.
type ValidationReport struct {
	Balanced   bool            `json:"balanced"`
	Message    string          `json:"message"`
	SetCount   int             `json:"setCount"`
	Unbalanced []UnbalancedSet `json:"unbalanced"`
}

// UnbalancedSetsError aborts a confirmation and carries the full report.
type UnbalancedSetsError struct {
	Report *ValidationReport
}

func (e *UnbalancedSetsError) Error() string {
	return fmt.Sprintf("%d unbalanced transaction sets", len(e.Report.Unbalanced))
}

func (e *UnbalancedSetsError) Unwrap() error {
	return apperrors.ErrValidation
}
