package services

import (
	"context"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
)

// StagingSvc defines operations for loading rows into the staging area
type StagingSvc interface {
	// Stage validates rows from the import collaborator and appends them to staging.
	Stage(ctx context.Context, req domain.StageRequest) (*domain.StageResult, error)

	// Clear empties the staging area.
	Clear(ctx context.Context) (int64, error)
}

// ValidationSvc defines read-only balance checks
type ValidationSvc interface {
	ValidateStaging(ctx context.Context) (*domain.ValidationReport, error)
	ValidateLedger(ctx context.Context, filter domain.EntryFilter) (*domain.ValidationReport, error)
}

// ConfirmationSvc defines the promotion of staging into the permanent ledger
type ConfirmationSvc interface {
	// Confirm promotes every staged entry atomically. An unbalanced staging area yields
	// *domain.UnbalancedSetsError and no writes.
	Confirm(ctx context.Context) (*domain.ConfirmResult, error)

	// Preview predicts the effect of Confirm without writing.
	Preview(ctx context.Context) (*domain.ConfirmPreview, error)

	// SyncUploads retries the move of confirmed upload files that are still waiting.
	SyncUploads(ctx context.Context) ([]string, error)
}

// PeriodCloseSvc defines the monthly closing state machine
type PeriodCloseSvc interface {
	// Close zeroes the period's P/L accounts into retained earnings.
	// A closed period is left alone unless reclose is set.
	Close(ctx context.Context, period domain.Period, reclose bool) (*domain.CloseResult, error)

	// State reports whether the period is OPEN or CLOSED.
	State(ctx context.Context, period domain.Period) (domain.PeriodState, error)
}
