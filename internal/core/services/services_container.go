package services

import (
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, codes SubjectNamer, options ...Option) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	container.Staging = NewStagingService(repos.LedgerRepo, codes, options...)
	container.Validation = NewValidationService(repos.LedgerRepo, cfg.BalanceTolerance, options...)
	container.Confirmation = NewConfirmationService(repos, cfg.BalanceTolerance, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.LedgerRepo, options...)

	periodClose, err := NewPeriodCloseService(repos.LedgerRepo, codes, cfg.RetainedEarningsCode, options...)
	if err != nil {
		return nil, err
	}
	container.PeriodClose = periodClose

	return container, nil
}
