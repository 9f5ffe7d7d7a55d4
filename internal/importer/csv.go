// Package importer reads the staging CSV handed over by the import/classification pipeline.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006/1/2", "2006-1-2"}

var requiredColumns = []string{"date", "set_id", "subject_code", "amount"}

// stagingRow is one CSV record before conversion.
type stagingRow struct {
	Date        string `validate:"required"`
	SetID       string `validate:"required,max=40"`
	EntryID     string `validate:"omitempty,max=48"`
	SubjectCode string `validate:"required,numeric"`
	Amount      string `validate:"required"`
	Remarks     string `validate:"max=500"`
	Kind        string `validate:"omitempty,max=20"`
}

// RowError locates a rejected CSV record.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var validate = validator.New()

// ParseStagingCSV converts the collaborator's CSV into entries.
// Subject names, year/month and batch fields are filled in by the staging service.
// Missing entry ids are derived as <set_id>_<NNN> from the leg's position within its set.
func ParseStagingCSV(r io.Reader, sourceFile string) ([]domain.Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", apperrors.ErrValidation, sourceFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", apperrors.ErrValidation, c)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var entries []domain.Entry
	seqs := make(map[string]int)
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		if isBlank(rec) {
			continue
		}

		row := stagingRow{
			Date:        field(rec, "date"),
			SetID:       field(rec, "set_id"),
			EntryID:     field(rec, "entry_id"),
			SubjectCode: field(rec, "subject_code"),
			Amount:      field(rec, "amount"),
			Remarks:     field(rec, "remarks"),
			Kind:        field(rec, "kind"),
		}
		entry, err := convertRow(row)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		seqs[entry.SetID]++
		if entry.EntryID == "" {
			entry.EntryID = domain.FormatEntryID(entry.SetID, seqs[entry.SetID])
		}
		entry.SourceFile = sourceFile
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s has no entries", apperrors.ErrValidation, sourceFile)
	}
	return entries, nil
}

func convertRow(row stagingRow) (domain.Entry, error) {
	if err := validate.Struct(row); err != nil {
		return domain.Entry{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := domain.CheckImportIDs(row.SetID, row.EntryID); err != nil {
		return domain.Entry{}, err
	}

	date, err := ParseDate(row.Date)
	if err != nil {
		return domain.Entry{}, err
	}
	code, err := domain.ParseSubjectCode(row.SubjectCode)
	if err != nil {
		return domain.Entry{}, err
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(row.Amount, ",", ""))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("%w: amount %q", apperrors.ErrValidation, row.Amount)
	}

	kind := domain.InferLegKind(row.Remarks)
	if row.Kind != "" {
		if kind, err = domain.ParseLegKind(row.Kind); err != nil {
			return domain.Entry{}, err
		}
	}

	return domain.Entry{
		EntryID:     row.EntryID,
		SetID:       row.SetID,
		Date:        date,
		SubjectCode: code,
		Amount:      amount,
		Remarks:     row.Remarks,
		Kind:        kind,
	}, nil
}

// ParseDate accepts the date layouts emitted by the import pipeline.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", apperrors.ErrValidation, s)
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
