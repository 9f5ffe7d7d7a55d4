package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL repositories. The upload store lives on disk and is set by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, uploads portsrepo.UploadStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		UploadStore:   uploads,
	}
}
