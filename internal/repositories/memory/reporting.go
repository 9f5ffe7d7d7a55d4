package memory

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
)

func (s *Store) GetTrialBalanceData(_ context.Context, asOf *domain.Period) ([]domain.TrialBalanceRow, error) {
	return accounting.BuildTrialBalance(s.read().ledgerSlice(), asOf).Rows, nil
}

func (s *Store) GetSetSummaries(_ context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error) {
	return accounting.BuildSetSummaries(s.relationEntries(relation, filter)), nil
}

func (s *Store) GetCashflow(_ context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error) {
	return accounting.BuildCashflow(s.relationEntries(relation, filter)), nil
}

// relationEntries returns the rows of one relation matched by filter.
func (s *Store) relationEntries(relation domain.Relation, filter domain.EntryFilter) []domain.Entry {
	var entries []domain.Entry
	st := s.read()
	if relation == domain.RelationStaging {
		entries = st.staging
	} else {
		entries = st.ledgerSlice()
	}
	matched := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

func (s *Store) GetAccountBalances(_ context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error) {
	var matched []domain.Entry
	filter := domain.EntryFilter{From: from, To: to}
	for _, e := range s.read().ledgerSlice() {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return accounting.BuildAccountBalances(matched), nil
}

func (s *Store) GetTableSummary(_ context.Context, relation domain.Relation) (*domain.TableSummary, error) {
	st := s.read()
	entries := st.staging
	if relation == domain.RelationLedger {
		entries = st.ledgerSlice()
	}
	summary := accounting.BuildTableSummary(relation, entries)
	return &summary, nil
}

func (s *Store) GetSourceFiles(_ context.Context) ([]domain.SourceFileSummary, error) {
	return accounting.BuildSourceFiles(s.read().staging), nil
}

func (s *Store) GetStagedDuplicates(_ context.Context) ([]domain.StagedDuplicate, error) {
	st := s.read()
	staged := make([]domain.Entry, 0, len(st.staging))
	for _, e := range st.staging {
		if _, ok := st.ledger[e.EntryID]; ok {
			staged = append(staged, e)
		}
	}
	sortEntries(staged)
	out := make([]domain.StagedDuplicate, 0, len(staged))
	for _, e := range staged {
		out = append(out, domain.StagedDuplicate{EntryID: e.EntryID, SetID: e.SetID, Date: e.Date, Remarks: e.Remarks, Amount: e.Amount})
	}
	return out, nil
}

func (s *Store) GetRecentConfirmations(_ context.Context, since time.Time) ([]domain.ConfirmationDay, error) {
	return accounting.BuildRecentConfirmations(s.read().ledgerSlice(), since), nil
}

func (s *Store) GetFinancialStatus(_ context.Context) ([]domain.FinancialStatusRow, error) {
	return accounting.BuildFinancialStatus(s.read().ledgerSlice()), nil
}

func (s *Store) GetMonthlyTrend(_ context.Context, months int) ([]domain.MonthlyTrendRow, error) {
	return accounting.BuildMonthlyTrend(s.read().ledgerSlice(), months), nil
}

func (s *Store) GetClosingStatus(_ context.Context) (*domain.ClosingStatus, error) {
	status := accounting.BuildClosingStatus(s.read().ledgerSlice())
	return &status, nil
}
