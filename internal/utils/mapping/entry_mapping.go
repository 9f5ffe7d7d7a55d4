package mapping

import (
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/models"
)

func toModelEntryColumns(d domain.Entry) models.EntryColumns {
	return models.EntryColumns{
		EntryID:     d.EntryID,
		SetID:       d.SetID,
		Date:        d.Date,
		SubjectCode: int(d.SubjectCode),
		Subject:     d.Subject,
		Amount:      d.Amount,
		Remarks:     d.Remarks,
		LegKind:     models.LegKind(d.Kind),
		Year:        d.Year,
		Month:       d.Month,
	}
}

func toDomainEntry(m models.EntryColumns) domain.Entry {
	return domain.Entry{
		EntryID:     m.EntryID,
		SetID:       m.SetID,
		Date:        m.Date,
		SubjectCode: domain.SubjectCode(m.SubjectCode),
		Subject:     m.Subject,
		Amount:      m.Amount,
		Remarks:     m.Remarks,
		Kind:        domain.LegKind(m.LegKind),
		Year:        m.Year,
		Month:       m.Month,
	}
}

// ToModelStagingEntry converts a domain Entry to a staging row
func ToModelStagingEntry(d domain.Entry) models.StagingEntry {
	return models.StagingEntry{
		StagingSeq:   d.Seq,
		BatchID:      d.BatchID,
		EntryColumns: toModelEntryColumns(d),
		SourceFile:   d.SourceFile,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainStagingEntry converts a staging row to a domain Entry
func ToDomainStagingEntry(m models.StagingEntry) domain.Entry {
	d := toDomainEntry(m.EntryColumns)
	d.Seq = m.StagingSeq
	d.BatchID = m.BatchID
	d.SourceFile = m.SourceFile
	d.CreatedAt = m.CreatedAt
	return d
}

// ToModelJournalEntry converts a domain Entry to a permanent ledger row
func ToModelJournalEntry(d domain.Entry) models.JournalEntry {
	return models.JournalEntry{
		EntryColumns: toModelEntryColumns(d),
		ConfirmedAt:  d.ConfirmedAt,
	}
}

// ToDomainJournalEntry converts a permanent ledger row to a domain Entry
func ToDomainJournalEntry(m models.JournalEntry) domain.Entry {
	d := toDomainEntry(m.EntryColumns)
	d.ConfirmedAt = m.ConfirmedAt
	return d
}

// ToDomainJournalEntrySlice converts a slice of ledger rows to domain Entries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.Entry {
	ds := make([]domain.Entry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
