package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

// ReportingRepository defines read-only views over staging and the permanent ledger
type ReportingRepository interface {
	// GetTrialBalanceData retrieves per-code debit/credit/net, optionally as of a period
	GetTrialBalanceData(ctx context.Context, asOf *domain.Period) ([]domain.TrialBalanceRow, error)

	// GetSetSummaries retrieves the per-set view of one relation
	GetSetSummaries(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error)

	// GetCashflow retrieves the net cash movement per set and remark of one relation
	GetCashflow(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error)

	// GetAccountBalances retrieves the per-account-per-period view
	GetAccountBalances(ctx context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error)

	GetTableSummary(ctx context.Context, relation domain.Relation) (*domain.TableSummary, error)
	GetSourceFiles(ctx context.Context) ([]domain.SourceFileSummary, error)
	GetStagedDuplicates(ctx context.Context) ([]domain.StagedDuplicate, error)
	GetRecentConfirmations(ctx context.Context, since time.Time) ([]domain.ConfirmationDay, error)
	GetFinancialStatus(ctx context.Context) ([]domain.FinancialStatusRow, error)
	GetMonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyTrendRow, error)
	GetClosingStatus(ctx context.Context) (*domain.ClosingStatus, error)
}
