package services

import (
	"context"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

// ReportingService defines operations for generating ledger reports
type ReportingService interface {
	// TrialBalance generates a trial balance, optionally as of a period
	TrialBalance(ctx context.Context, asOf *domain.Period) (*domain.TrialBalance, error)

	// SetSummaries lists the per-set view of staging or the ledger
	SetSummaries(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error)

	// Cashflow lists the net cash movement per set and remark of staging or the ledger
	Cashflow(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error)

	// AccountBalances lists per-account-per-period balances
	AccountBalances(ctx context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error)

	// ListEntries pages through the permanent ledger
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error)

	TableSummary(ctx context.Context) ([]domain.TableSummary, error)
	SourceFiles(ctx context.Context) ([]domain.SourceFileSummary, error)
	RecentConfirmations(ctx context.Context, days int) ([]domain.ConfirmationDay, error)
	FinancialStatus(ctx context.Context) ([]domain.FinancialStatusRow, error)
	MonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyTrendRow, error)
	ClosingStatus(ctx context.Context) (*domain.ClosingStatus, error)
}
