package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// validationService implements the ValidationSvc interface
type validationService struct {
	BaseService
	repo      portsrepo.LedgerStore
	tolerance decimal.Decimal
}

// NewValidationService creates a new validation service
func NewValidationService(repo portsrepo.LedgerStore, tolerance decimal.Decimal, options ...Option) portssvc.ValidationSvc {
	svc := &validationService{repo: repo, tolerance: tolerance}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ValidationSvc = (*validationService)(nil)

// ValidateStaging checks the staged sets as Confirm would promote them,
// after repeated entry ids are collapsed to their latest row.
func (s *validationService) ValidateStaging(ctx context.Context) (*domain.ValidationReport, error) {
	staged, err := s.repo.ListStaging(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load staging for validation")
		return nil, fmt.Errorf("loading staging: %w", err)
	}
	return s.validate(ctx, "staging", latestByEntryID(staged)), nil
}

// ValidateLedger checks the permanent sets matched by filter.
func (s *validationService) ValidateLedger(ctx context.Context, filter domain.EntryFilter) (*domain.ValidationReport, error) {
	entries, err := s.repo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for validation")
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return s.validate(ctx, "ledger", entries), nil
}

func (s *validationService) validate(ctx context.Context, relation string, entries []domain.Entry) *domain.ValidationReport {
	report := accounting.ValidateSets(entries, s.tolerance)
	s.LogDebug(ctx, "Validated sets",
		slog.String("relation", relation),
		slog.Int("sets", report.SetCount),
		slog.Int("unbalanced", len(report.Unbalanced)))
	return &report
}
