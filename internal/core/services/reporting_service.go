package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
)

const (
	defaultPageSize    = 50
	maxPageSize        = 500
	defaultRecentDays  = 7
	defaultTrendMonths = 12
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	ledgerRepo    portsrepo.LedgerReader
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, ledgerRepo portsrepo.LedgerReader, options ...Option) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: reportingRepo,
		ledgerRepo:    ledgerRepo,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance, optionally as of a period
func (s *reportingService) TrialBalance(ctx context.Context, asOf *domain.Period) (*domain.TrialBalance, error) {
	if asOf != nil && !asOf.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPeriod, asOf)
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data")
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := accounting.WithTotals(domain.TrialBalance{AsOf: asOf, Rows: rows})
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.Int("row_count", len(rows)),
		slog.Bool("balanced", tb.TotalDebit.Equal(tb.TotalCredit)))
	return &tb, nil
}

// SetSummaries lists the per-set view of staging or the ledger
func (s *reportingService) SetSummaries(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error) {
	if relation != domain.RelationStaging && relation != domain.RelationLedger {
		return nil, fmt.Errorf("%w: unknown relation %q", domain.ErrInvalidRelation, relation)
	}
	sets, err := s.reportingRepo.GetSetSummaries(ctx, relation, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve set summaries", slog.String("relation", string(relation)))
		return nil, fmt.Errorf("failed to retrieve set summaries: %w", err)
	}
	return sets, nil
}

// Cashflow lists the net cash movement per set and remark
func (s *reportingService) Cashflow(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error) {
	if relation != domain.RelationStaging && relation != domain.RelationLedger {
		return nil, fmt.Errorf("%w: unknown relation %q", domain.ErrInvalidRelation, relation)
	}
	rows, err := s.reportingRepo.GetCashflow(ctx, relation, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cashflow", slog.String("relation", string(relation)))
		return nil, fmt.Errorf("failed to retrieve cashflow: %w", err)
	}
	return rows, nil
}

// AccountBalances lists per-account-per-period balances
func (s *reportingService) AccountBalances(ctx context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error) {
	balances, err := s.reportingRepo.GetAccountBalances(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account balances")
		return nil, fmt.Errorf("failed to retrieve account balances: %w", err)
	}
	return balances, nil
}

// ListEntries pages through the permanent ledger
func (s *reportingService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	entries, next, err := s.ledgerRepo.ListEntriesPage(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, next, nil
}

// TableSummary describes staging and the ledger side by side.
func (s *reportingService) TableSummary(ctx context.Context) ([]domain.TableSummary, error) {
	out := make([]domain.TableSummary, 0, 2)
	for _, relation := range []domain.Relation{domain.RelationStaging, domain.RelationLedger} {
		summary, err := s.reportingRepo.GetTableSummary(ctx, relation)
		if err != nil {
			s.LogError(ctx, err, "Failed to summarize table", slog.String("relation", string(relation)))
			return nil, fmt.Errorf("failed to summarize %s: %w", relation, err)
		}
		out = append(out, *summary)
	}
	return out, nil
}

func (s *reportingService) SourceFiles(ctx context.Context) ([]domain.SourceFileSummary, error) {
	files, err := s.reportingRepo.GetSourceFiles(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list staged source files")
		return nil, fmt.Errorf("failed to list staged source files: %w", err)
	}
	return files, nil
}

// RecentConfirmations summarizes confirmations per day over the last days.
func (s *reportingService) RecentConfirmations(ctx context.Context, days int) ([]domain.ConfirmationDay, error) {
	if days <= 0 {
		days = defaultRecentDays
	}
	since := s.CurrentTime().AddDate(0, 0, -days)
	out, err := s.reportingRepo.GetRecentConfirmations(ctx, since)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent confirmations", slog.Int("days", days))
		return nil, fmt.Errorf("failed to list recent confirmations: %w", err)
	}
	return out, nil
}

func (s *reportingService) FinancialStatus(ctx context.Context) ([]domain.FinancialStatusRow, error) {
	rows, err := s.reportingRepo.GetFinancialStatus(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve financial status")
		return nil, fmt.Errorf("failed to retrieve financial status: %w", err)
	}
	return rows, nil
}

func (s *reportingService) MonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyTrendRow, error) {
	if months <= 0 {
		months = defaultTrendMonths
	}
	rows, err := s.reportingRepo.GetMonthlyTrend(ctx, months)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve monthly trend", slog.Int("months", months))
		return nil, fmt.Errorf("failed to retrieve monthly trend: %w", err)
	}
	return rows, nil
}

func (s *reportingService) ClosingStatus(ctx context.Context) (*domain.ClosingStatus, error) {
	status, err := s.reportingRepo.GetClosingStatus(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve closing status")
		return nil, fmt.Errorf("failed to retrieve closing status: %w", err)
	}
	return status, nil
}
