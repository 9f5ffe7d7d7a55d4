package repositories

import (
	"context"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

// StagingReader defines read operations on the staging area
type StagingReader interface {
	// ListStaging returns every staged entry ordered by insertion sequence.
	ListStaging(ctx context.Context) ([]domain.Entry, error)

	// CountStagingBySourceFile counts staged rows imported from the given file.
	CountStagingBySourceFile(ctx context.Context, sourceFile string) (int, error)
}

// StagingWriter defines write operations on the staging area
type StagingWriter interface {
	// AppendStaging inserts entries as-is. It never deduplicates.
	AppendStaging(ctx context.Context, entries []domain.Entry) error

	// ClearStaging deletes all staged rows and returns how many were removed.
	ClearStaging(ctx context.Context) (int64, error)

	// DeleteStagingBySourceFile removes rows previously staged from one file.
	DeleteStagingBySourceFile(ctx context.Context, sourceFile string) (int64, error)
}

// LedgerReader defines read operations on the permanent ledger
type LedgerReader interface {
	// ListEntries returns permanent entries matching the filter ordered by date, set id and entry id.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error)

	// ListEntriesPage is the paginated variant of ListEntries.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesPage(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// SumProfitAndLoss sums the period's P/L legs per code, excluding zeroing legs and dropping zero sums.
	SumProfitAndLoss(ctx context.Context, period domain.Period) ([]domain.AccountAmount, error)

	// CountLegs counts the period's legs of the given kinds.
	CountLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int, error)

	// ListEntriesByIDs returns the permanent entries carrying any of the ids.
	ListEntriesByIDs(ctx context.Context, entryIDs []string) ([]domain.Entry, error)

	// ListSets returns every permanent leg of the given sets.
	ListSets(ctx context.Context, keys []domain.SetKey) ([]domain.Entry, error)
}

// LedgerWriter defines write operations on the permanent ledger.
// Only confirmation and period close call these.
type LedgerWriter interface {
	// AppendPermanent inserts entries into the permanent ledger.
	AppendPermanent(ctx context.Context, entries []domain.Entry) error

	// DeletePermanentByEntryIDs removes rows whose entry id is listed.
	DeletePermanentByEntryIDs(ctx context.Context, entryIDs []string) (int64, error)

	// DeletePermanentSets removes every leg of the given sets.
	DeletePermanentSets(ctx context.Context, keys []domain.SetKey) (int64, error)

	// DeletePermanentLegs removes the period's legs of the given kinds.
	DeletePermanentLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int64, error)
}

// LedgerStore is the full set of store operations available inside a unit of work
type LedgerStore interface {
	StagingReader
	StagingWriter
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryFacade combines store access with transaction demarcation
type LedgerRepositoryFacade interface {
	LedgerStore
	UnitOfWork
}
