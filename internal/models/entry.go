package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegKind mirrors the leg_kind column.
type LegKind string

// EntryColumns are the columns shared by staging_entries and journal_entries.
type EntryColumns struct {
	EntryID     string          `db:"entry_id"`
	SetID       string          `db:"set_id"`
	Date        time.Time       `db:"date"`
	SubjectCode int             `db:"subject_code"`
	Subject     string          `db:"subject"`
	Amount      decimal.Decimal `db:"amount"`
	Remarks     string          `db:"remarks"`
	LegKind     LegKind         `db:"leg_kind"`
	Year        int             `db:"year"`
	Month       int             `db:"month"`
}

// StagingEntry is one row of staging_entries.
type StagingEntry struct {
	StagingSeq int64  `db:"staging_seq"`
	BatchID    string `db:"batch_id"`
	EntryColumns
	SourceFile string    `db:"source_file"`
	CreatedAt  time.Time `db:"created_at"`
}

// JournalEntry is one row of journal_entries, the permanent ledger.
type JournalEntry struct {
	EntryColumns
	ConfirmedAt *time.Time `db:"confirmed_at"` // Nullable for rows migrated from older data
}
