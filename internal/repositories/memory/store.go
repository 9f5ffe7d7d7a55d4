// Package memory is an in-process ledger store with the same transactional contract as the PostgreSQL one.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
	"github.com/SscSPs/ledger_ingest/internal/utils/pagination"
)

// state is one snapshot of both relations.
type state struct {
	staging []domain.Entry
	ledger  map[string]domain.Entry
	seq     int64
}

func (s *state) clone() *state {
	out := &state{
		staging: make([]domain.Entry, len(s.staging)),
		ledger:  make(map[string]domain.Entry, len(s.ledger)),
		seq:     s.seq,
	}
	copy(out.staging, s.staging)
	for k, v := range s.ledger {
		out.ledger[k] = v
	}
	return out
}

// Store keeps staging and the permanent ledger in memory.
// Units of work run on a private copy that replaces the committed state only on success.
type Store struct {
	// writeMu is the exclusive ledger lock held for a whole unit of work.
	writeMu sync.Mutex

	mu        sync.RWMutex
	committed *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{committed: &state{ledger: make(map[string]domain.Entry)}}
}

var (
	_ portsrepo.LedgerRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReportingRepository    = (*Store)(nil)
)

// RunInTx runs fn against a copy of the store and publishes the copy when fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(ctx, work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) read() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// write applies fn as its own single-statement unit of work.
func (s *Store) write(ctx context.Context, fn func(*state) error) error {
	return s.RunInTx(ctx, func(_ context.Context, store portsrepo.LedgerStore) error {
		return fn(store.(*state))
	})
}

func (s *Store) ListStaging(ctx context.Context) ([]domain.Entry, error) {
	return s.read().ListStaging(ctx)
}

func (s *Store) CountStagingBySourceFile(ctx context.Context, sourceFile string) (int, error) {
	return s.read().CountStagingBySourceFile(ctx, sourceFile)
}

func (s *Store) AppendStaging(ctx context.Context, entries []domain.Entry) error {
	return s.write(ctx, func(st *state) error { return st.AppendStaging(ctx, entries) })
}

func (s *Store) ClearStaging(ctx context.Context) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) (err error) {
		n, err = st.ClearStaging(ctx)
		return err
	})
	return n, err
}

func (s *Store) DeleteStagingBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) (err error) {
		n, err = st.DeleteStagingBySourceFile(ctx, sourceFile)
		return err
	})
	return n, err
}

func (s *Store) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	return s.read().ListEntries(ctx, filter)
}

func (s *Store) ListEntriesPage(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	return s.read().ListEntriesPage(ctx, filter, limit, nextToken)
}

func (s *Store) SumProfitAndLoss(ctx context.Context, period domain.Period) ([]domain.AccountAmount, error) {
	return s.read().SumProfitAndLoss(ctx, period)
}

func (s *Store) CountLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int, error) {
	return s.read().CountLegs(ctx, period, kinds...)
}

func (s *Store) ListEntriesByIDs(ctx context.Context, entryIDs []string) ([]domain.Entry, error) {
	return s.read().ListEntriesByIDs(ctx, entryIDs)
}

func (s *Store) ListSets(ctx context.Context, keys []domain.SetKey) ([]domain.Entry, error) {
	return s.read().ListSets(ctx, keys)
}

func (s *Store) AppendPermanent(ctx context.Context, entries []domain.Entry) error {
	return s.write(ctx, func(st *state) error { return st.AppendPermanent(ctx, entries) })
}

func (s *Store) DeletePermanentByEntryIDs(ctx context.Context, entryIDs []string) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) (err error) {
		n, err = st.DeletePermanentByEntryIDs(ctx, entryIDs)
		return err
	})
	return n, err
}

func (s *Store) DeletePermanentSets(ctx context.Context, keys []domain.SetKey) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) (err error) {
		n, err = st.DeletePermanentSets(ctx, keys)
		return err
	})
	return n, err
}

func (s *Store) DeletePermanentLegs(ctx context.Context, period domain.Period, kinds ...domain.LegKind) (int64, error) {
	var n int64
	err := s.write(ctx, func(st *state) (err error) {
		n, err = st.DeletePermanentLegs(ctx, period, kinds...)
		return err
	})
	return n, err
}

// --- state implements portsrepo.LedgerStore for the working copy of a unit of work ---

func (st *state) ListStaging(_ context.Context) ([]domain.Entry, error) {
	out := make([]domain.Entry, len(st.staging))
	copy(out, st.staging)
	return out, nil
}

func (st *state) CountStagingBySourceFile(_ context.Context, sourceFile string) (int, error) {
	n := 0
	for _, e := range st.staging {
		if e.SourceFile == sourceFile {
			n++
		}
	}
	return n, nil
}

func (st *state) AppendStaging(_ context.Context, entries []domain.Entry) error {
	now := time.Now().UTC()
	for _, e := range entries {
		st.seq++
		e.Seq = st.seq
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		st.staging = append(st.staging, e)
	}
	return nil
}

func (st *state) ClearStaging(_ context.Context) (int64, error) {
	n := int64(len(st.staging))
	st.staging = nil
	return n, nil
}

func (st *state) DeleteStagingBySourceFile(_ context.Context, sourceFile string) (int64, error) {
	kept := st.staging[:0:0]
	var n int64
	for _, e := range st.staging {
		if e.SourceFile == sourceFile {
			n++
			continue
		}
		kept = append(kept, e)
	}
	st.staging = kept
	return n, nil
}

func (st *state) ListEntries(_ context.Context, filter domain.EntryFilter) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, len(st.ledger))
	for _, e := range st.ledger {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (st *state) ListEntriesPage(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	all, _ := st.ListEntries(ctx, filter)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		start := len(all)
		for i, e := range all {
			if cursor.After(e.Date, e.SetID, e.EntryID) {
				start = i
				break
			}
		}
		all = all[start:]
	}
	if limit <= 0 || len(all) <= limit {
		return all, nil, nil
	}
	page := all[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeEntryToken(pagination.EntryCursor{Date: last.Date, SetID: last.SetID, EntryID: last.EntryID})
	return page, &token, nil
}

func (st *state) SumProfitAndLoss(_ context.Context, period domain.Period) ([]domain.AccountAmount, error) {
	return accounting.ProfitAndLossBalances(st.ledgerSlice(), period), nil
}

func (st *state) CountLegs(_ context.Context, period domain.Period, kinds ...domain.LegKind) (int, error) {
	filter := domain.EntryFilter{From: &period, To: &period, Kinds: kinds}
	n := 0
	for _, e := range st.ledger {
		if filter.Matches(e) {
			n++
		}
	}
	return n, nil
}

func (st *state) ListEntriesByIDs(_ context.Context, entryIDs []string) ([]domain.Entry, error) {
	out := []domain.Entry{}
	for _, id := range entryIDs {
		if e, ok := st.ledger[id]; ok {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (st *state) ListSets(_ context.Context, keys []domain.SetKey) ([]domain.Entry, error) {
	out := []domain.Entry{}
	for _, e := range st.ledger {
		if inSets(keys, e) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (st *state) AppendPermanent(_ context.Context, entries []domain.Entry) error {
	for _, e := range entries {
		if _, exists := st.ledger[e.EntryID]; exists {
			return apperrors.NewAppError(409, "duplicate entry_id "+e.EntryID, apperrors.ErrDuplicate)
		}
	}
	for _, e := range entries {
		e.SourceFile, e.BatchID, e.Seq = "", "", 0
		e.CreatedAt = time.Time{}
		st.ledger[e.EntryID] = e
	}
	return nil
}

func (st *state) DeletePermanentByEntryIDs(_ context.Context, entryIDs []string) (int64, error) {
	var n int64
	for _, id := range entryIDs {
		if _, ok := st.ledger[id]; ok {
			delete(st.ledger, id)
			n++
		}
	}
	return n, nil
}

func (st *state) DeletePermanentSets(_ context.Context, keys []domain.SetKey) (int64, error) {
	var n int64
	for id, e := range st.ledger {
		if inSets(keys, e) {
			delete(st.ledger, id)
			n++
		}
	}
	return n, nil
}

func (st *state) DeletePermanentLegs(_ context.Context, period domain.Period, kinds ...domain.LegKind) (int64, error) {
	filter := domain.EntryFilter{From: &period, To: &period, Kinds: kinds}
	var n int64
	for id, e := range st.ledger {
		if filter.Matches(e) {
			delete(st.ledger, id)
			n++
		}
	}
	return n, nil
}

func (st *state) ledgerSlice() []domain.Entry {
	out := make([]domain.Entry, 0, len(st.ledger))
	for _, e := range st.ledger {
		out = append(out, e)
	}
	sortEntries(out)
	return out
}

func inSets(keys []domain.SetKey, e domain.Entry) bool {
	for _, k := range keys {
		if k.Holds(e) {
			return true
		}
	}
	return false
}

func sortEntries(entries []domain.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.SetID != b.SetID {
			return a.SetID < b.SetID
		}
		return a.EntryID < b.EntryID
	})
}
