package pgsql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_ingest/internal/models"
	"github.com/SscSPs/ledger_ingest/internal/utils/mapping"
	"github.com/SscSPs/ledger_ingest/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerLockKey is the pg_advisory_xact_lock key serializing every ledger write.
const ledgerLockKey int64 = 0x6c6564676572

const journalColumns = `entry_id, set_id, date, subject_code, subject, amount, remarks, leg_kind, year, month, confirmed_at`

const stagingColumns = `staging_seq, batch_id, entry_id, set_id, date, subject_code, subject, amount, remarks, leg_kind, year, month, source_file, created_at`

// PgxLedgerRepository stores staging and the permanent ledger in PostgreSQL.
// Reads go straight to the pool; every write runs in a locked unit of work.
type PgxLedgerRepository struct {
	BaseRepository
	ledgerStatements
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository:   BaseRepository{Pool: pool},
		ledgerStatements: ledgerStatements{db: pool},
	}
}

var (
	_ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)
	_ portsrepo.LedgerStore            = (*ledgerStatements)(nil)
)

// RunInTx runs fn in a transaction that first takes the ledger's advisory lock.
// The lock is released when the transaction ends.
func (r *PgxLedgerRepository) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return apperrors.NewAppError(500, "failed to acquire ledger lock", err)
	}
	if err := fn(ctx, &ledgerStatements{db: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) AppendStaging(ctx context.Context, entries []domain.Entry) error {
	return r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		return store.AppendStaging(ctx, entries)
	})
}

func (r *PgxLedgerRepository) ClearStaging(ctx context.Context) (n int64, err error) {
	err = r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		n, err = store.ClearStaging(ctx)
		return err
	})
	return n, err
}

func (r *PgxLedgerRepository) DeleteStagingBySourceFile(ctx context.Context, sourceFile string) (n int64, err error) {
	err = r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		n, err = store.DeleteStagingBySourceFile(ctx, sourceFile)
		return err
	})
	return n, err
}

func (r *PgxLedgerRepository) AppendPermanent(ctx context.Context, entries []domain.Entry) error {
	return r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		return store.AppendPermanent(ctx, entries)
	})
}

func (r *PgxLedgerRepository) DeletePermanentByEntryIDs(ctx context.Context, entryIDs []string) (n int64, err error) {
	err = r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		n, err = store.DeletePermanentByEntryIDs(ctx, entryIDs)
		return err
	})
	return n, err
}

func (r *PgxLedgerRepository) DeletePermanentSets(ctx context.Context, keys []domain.SetKey) (n int64, err error) {
	err = r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		n, err = store.DeletePermanentSets(ctx, keys)
		return err
	})
	return n, err
}

func (r *PgxLedgerRepository) DeletePermanentLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (n int64, err error) {
	err = r.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		n, err = store.DeletePermanentLegs(ctx, period, kinds...)
		return err
	})
	return n, err
}

// ledgerStatements issues the store statements against the pool or an open transaction.
type ledgerStatements struct {
	db querier
}

func (s *ledgerStatements) ListStaging(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.Query(ctx, `SELECT `+stagingColumns+` FROM staging_entries ORDER BY staging_seq`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query staging entries", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var m models.StagingEntry
		if err := rows.Scan(
			&m.StagingSeq,
			&m.BatchID,
			&m.EntryID,
			&m.SetID,
			&m.Date,
			&m.SubjectCode,
			&m.Subject,
			&m.Amount,
			&m.Remarks,
			&m.LegKind,
			&m.Year,
			&m.Month,
			&m.SourceFile,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan staging entry", err)
		}
		entries = append(entries, mapping.ToDomainStagingEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating staging entries", err)
	}
	return entries, nil
}

func (s *ledgerStatements) CountStagingBySourceFile(ctx context.Context, sourceFile string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM staging_entries WHERE source_file = $1`, sourceFile).Scan(&n)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count staged rows of "+sourceFile, err)
	}
	return n, nil
}

func (s *ledgerStatements) AppendStaging(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO staging_entries (batch_id, entry_id, set_id, date, subject_code, subject, amount, remarks, leg_kind, year, month, source_file, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, e := range entries {
		m := mapping.ToModelStagingEntry(e)
		batch.Queue(query,
			m.BatchID,
			m.EntryID,
			m.SetID,
			m.Date,
			m.SubjectCode,
			m.Subject,
			m.Amount,
			m.Remarks,
			m.LegKind,
			m.Year,
			m.Month,
			m.SourceFile,
			m.CreatedAt,
		)
	}
	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert staging entries", err)
	}
	return nil
}

func (s *ledgerStatements) ClearStaging(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM staging_entries`)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to clear staging", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ledgerStatements) DeleteStagingBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM staging_entries WHERE source_file = $1`, sourceFile)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete staged rows of "+sourceFile, err)
	}
	return tag.RowsAffected(), nil
}

func (s *ledgerStatements) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	where, args := entryFilterClause(filter, nil)
	return s.queryJournal(ctx, `SELECT `+journalColumns+` FROM journal_entries`+where+` ORDER BY date, set_id, entry_id`, args...)
}

// ListEntriesPage walks the ledger in (date, set_id, entry_id) order.
// It fetches one extra row to decide whether a next page exists.
func (s *ledgerStatements) ListEntriesPage(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	where, args := entryFilterClause(filter, nil)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, cursor.Date, cursor.SetID, cursor.EntryID)
		n := len(args)
		where = andClause(where, "(date, set_id, entry_id) > ($"+strconv.Itoa(n-2)+", $"+strconv.Itoa(n-1)+", $"+strconv.Itoa(n)+")")
	}
	args = append(args, fetchLimit)
	query := `SELECT ` + journalColumns + ` FROM journal_entries` + where +
		` ORDER BY date, set_id, entry_id LIMIT $` + strconv.Itoa(len(args))

	entries, err := s.queryJournal(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) <= limit {
		return entries, nil, nil
	}
	page := entries[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeEntryToken(pagination.EntryCursor{Date: last.Date, SetID: last.SetID, EntryID: last.EntryID})
	return page, &token, nil
}

func (s *ledgerStatements) SumProfitAndLoss(ctx context.Context, period domain.Period) ([]domain.AccountAmount, error) {
	query := `
		SELECT subject_code, MAX(subject), SUM(amount)
		FROM journal_entries
		WHERE year = $1 AND month = $2
			AND subject_code BETWEEN 400 AND 599
			AND leg_kind <> 'CLOSING_ZERO'
		GROUP BY subject_code
		HAVING SUM(amount) <> 0
		ORDER BY subject_code
	`
	rows, err := s.db.Query(ctx, query, period.Year, period.Month)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum profit and loss for "+period.String(), err)
	}
	defer rows.Close()

	out := []domain.AccountAmount{}
	for rows.Next() {
		var a domain.AccountAmount
		var code int
		if err := rows.Scan(&code, &a.Subject, &a.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan profit and loss row", err)
		}
		a.SubjectCode = domain.SubjectCode(code)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating profit and loss rows", err)
	}
	return out, nil
}

func (s *ledgerStatements) CountLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE year = $1 AND month = $2 AND leg_kind = ANY($3)`,
		period.Year, period.Month, kindStrings(kinds),
	).Scan(&n)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count legs for "+period.String(), err)
	}
	return n, nil
}

func (s *ledgerStatements) ListEntriesByIDs(ctx context.Context, entryIDs []string) ([]domain.Entry, error) {
	if len(entryIDs) == 0 {
		return []domain.Entry{}, nil
	}
	return s.queryJournal(ctx, `SELECT `+journalColumns+` FROM journal_entries WHERE entry_id = ANY($1) ORDER BY date, set_id, entry_id`, entryIDs)
}

func (s *ledgerStatements) ListSets(ctx context.Context, keys []domain.SetKey) ([]domain.Entry, error) {
	if len(keys) == 0 {
		return []domain.Entry{}, nil
	}
	dates, setIDs := setKeyArrays(keys)
	query := `SELECT ` + journalColumns + ` FROM journal_entries
		WHERE (date, set_id) IN (SELECT * FROM unnest($1::date[], $2::text[]))
		ORDER BY date, set_id, entry_id`
	return s.queryJournal(ctx, query, dates, setIDs)
}

func (s *ledgerStatements) AppendPermanent(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entries (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, e := range entries {
		m := mapping.ToModelJournalEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.SetID,
			m.Date,
			m.SubjectCode,
			m.Subject,
			m.Amount,
			m.Remarks,
			m.LegKind,
			m.Year,
			m.Month,
			m.ConfirmedAt,
		)
	}
	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "entry already exists in the ledger", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert ledger entries", err)
	}
	return nil
}

func (s *ledgerStatements) DeletePermanentByEntryIDs(ctx context.Context, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = ANY($1)`, entryIDs)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete replaced ledger entries", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ledgerStatements) DeletePermanentSets(ctx context.Context, keys []domain.SetKey) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	dates, setIDs := setKeyArrays(keys)
	tag, err := s.db.Exec(ctx,
		`DELETE FROM journal_entries WHERE (date, set_id) IN (SELECT * FROM unnest($1::date[], $2::text[]))`,
		dates, setIDs,
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete replaced ledger sets", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ledgerStatements) DeletePermanentLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM journal_entries WHERE year = $1 AND month = $2 AND leg_kind = ANY($3)`,
		period.Year, period.Month, kindStrings(kinds),
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete legs for "+period.String(), err)
	}
	return tag.RowsAffected(), nil
}

func (s *ledgerStatements) queryJournal(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.SetID,
			&m.Date,
			&m.SubjectCode,
			&m.Subject,
			&m.Amount,
			&m.Remarks,
			&m.LegKind,
			&m.Year,
			&m.Month,
			&m.ConfirmedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entries", err)
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}

// entryFilterClause renders filter as a WHERE clause, numbering placeholders after args.
func entryFilterClause(filter domain.EntryFilter, args []any) (string, []any) {
	var conds []string
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.From != nil {
		add("year * 100 + month >= ?", filter.From.Key())
	}
	if filter.To != nil {
		add("year * 100 + month <= ?", filter.To.Key())
	}
	if filter.SetID != "" {
		add("set_id = ?", filter.SetID)
	}
	if filter.Code != 0 {
		add("subject_code = ?", int(filter.Code))
	}
	if len(filter.Kinds) > 0 {
		add("leg_kind = ANY(?)", kindStrings(filter.Kinds))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func andClause(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}

func setKeyArrays(keys []domain.SetKey) ([]time.Time, []string) {
	dates := make([]time.Time, len(keys))
	setIDs := make([]string, len(keys))
	for i, k := range keys {
		dates[i], setIDs[i] = k.Date, k.SetID
	}
	return dates, setIDs
}

func kindStrings(kinds []domain.LegKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
