package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// confirmationService implements the ConfirmationSvc interface
type confirmationService struct {
	BaseService
	repo      portsrepo.LedgerRepositoryFacade
	reporting portsrepo.ReportingRepository
	uploads   portsrepo.UploadStore
	tolerance decimal.Decimal
}

// NewConfirmationService creates a new confirmation service.
// uploads may be nil when no provenance copies are kept.
func NewConfirmationService(repos portsrepo.RepositoryProvider, tolerance decimal.Decimal, options ...Option) portssvc.ConfirmationSvc {
	svc := &confirmationService{
		repo:      repos.LedgerRepo,
		reporting: repos.ReportingRepo,
		uploads:   repos.UploadStore,
		tolerance: tolerance,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ConfirmationSvc = (*confirmationService)(nil)

// Confirm promotes staging into the permanent ledger.
func (s *confirmationService) Confirm(ctx context.Context) (*domain.ConfirmResult, error) {
	result := &domain.ConfirmResult{ConfirmedAt: s.CurrentTime(), SourceFiles: []string{}}

	err := s.repo.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		staged, err := store.ListStaging(ctx)
		if err != nil {
			return fmt.Errorf("loading staging: %w", err)
		}
		if len(staged) == 0 {
			return nil
		}

		promote := latestByEntryID(staged)
		result.DuplicatesDropped = len(staged) - len(promote)

		report := accounting.ValidateSets(promote, s.tolerance)
		if !report.Balanced {
			return &domain.UnbalancedSetsError{Report: &report}
		}

		confirmedAt := result.ConfirmedAt
		ids := make([]string, len(promote))
		for i := range promote {
			ids[i] = promote[i].EntryID
			promote[i].ConfirmedAt = &confirmedAt
		}
		touched, _ := accounting.GroupSets(promote)

		existing, err := store.ListEntriesByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("loading replaced entries: %w", err)
		}
		displaced := otherSets(existing, touched)

		// A confirmed set replaces the whole permanent set with the same date and set id.
		replacedSets, err := store.DeletePermanentSets(ctx, touched)
		if err != nil {
			return fmt.Errorf("removing replaced sets: %w", err)
		}
		replacedIDs, err := store.DeletePermanentByEntryIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("removing replaced entries: %w", err)
		}
		result.Replaced = replacedSets + replacedIDs

		if err := store.AppendPermanent(ctx, promote); err != nil {
			return fmt.Errorf("inserting confirmed entries: %w", err)
		}

		// Sets that gave up an entry id to another set must still balance.
		if len(displaced) > 0 {
			remaining, err := store.ListSets(ctx, displaced)
			if err != nil {
				return fmt.Errorf("loading displaced sets: %w", err)
			}
			if leftover := accounting.ValidateSets(remaining, s.tolerance); !leftover.Balanced {
				return &domain.UnbalancedSetsError{Report: &leftover}
			}
		}

		if _, err := store.ClearStaging(ctx); err != nil {
			return fmt.Errorf("clearing staging: %w", err)
		}

		result.Promoted = len(promote)
		result.SourceFiles = sourceFiles(staged)
		return nil
	})
	if err != nil {
		var unbalanced *domain.UnbalancedSetsError
		if errors.As(err, &unbalanced) {
			s.Metrics.ObserveConfirmation("unbalanced", 0)
			s.LogWarn(ctx, "Confirmation rejected", slog.String("reason", unbalanced.Report.Message))
		} else {
			s.Metrics.ObserveConfirmation("error", 0)
			s.LogError(ctx, err, "Confirmation failed")
		}
		return nil, err
	}

	if result.Promoted == 0 {
		s.Metrics.ObserveConfirmation("empty", 0)
		s.LogInfo(ctx, "Nothing staged to confirm")
		return result, nil
	}

	s.Metrics.ObserveConfirmation("confirmed", result.Promoted)
	s.LogInfo(ctx, "Staging confirmed",
		slog.Int("promoted", result.Promoted),
		slog.Int64("replaced", result.Replaced),
		slog.Int("duplicates_dropped", result.DuplicatesDropped))

	result.FileWarning = s.moveUploads(ctx, result.SourceFiles)
	return result, nil
}

// Preview predicts the effect of Confirm without writing.
func (s *confirmationService) Preview(ctx context.Context) (*domain.ConfirmPreview, error) {
	staged, err := s.repo.ListStaging(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load staging for preview")
		return nil, fmt.Errorf("loading staging: %w", err)
	}
	duplicates, err := s.reporting.GetStagedDuplicates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load staged duplicates")
		return nil, fmt.Errorf("loading staged duplicates: %w", err)
	}

	unique := latestByEntryID(staged)
	report := accounting.ValidateSets(unique, s.tolerance)

	replacing := make(map[string]struct{}, len(duplicates))
	for _, d := range duplicates {
		replacing[d.EntryID] = struct{}{}
	}

	return &domain.ConfirmPreview{
		Staged:                  len(staged),
		ReplacingExisting:       len(replacing),
		DuplicatesWithinStaging: len(staged) - len(unique),
		Duplicates:              duplicates,
		Validation:              &report,
	}, nil
}

// SyncUploads moves every waiting upload whose rows are no longer staged.
func (s *confirmationService) SyncUploads(ctx context.Context) ([]string, error) {
	if s.uploads == nil {
		return []string{}, nil
	}
	waiting, err := s.uploads.ListUnconfirmed()
	if err != nil {
		return nil, err
	}

	moved := []string{}
	for _, name := range waiting {
		n, err := s.repo.CountStagingBySourceFile(ctx, name)
		if err != nil {
			return moved, fmt.Errorf("checking staging for %s: %w", name, err)
		}
		if n > 0 {
			continue
		}
		if err := s.uploads.MarkConfirmed(name); err != nil {
			s.Metrics.ObserveFileMoveFailures(1)
			return moved, err
		}
		moved = append(moved, name)
	}
	s.LogInfo(ctx, "Uploads synced", slog.Int("moved", len(moved)))
	return moved, nil
}

// moveUploads runs after commit. Its failures never undo the confirmation.
func (s *confirmationService) moveUploads(ctx context.Context, files []string) error {
	if s.uploads == nil || len(files) == 0 {
		return nil
	}
	var errs []error
	for _, f := range files {
		if err := s.uploads.MarkConfirmed(f); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	s.Metrics.ObserveFileMoveFailures(len(errs))
	warning := errors.Join(errs...)
	s.LogWarn(ctx, "Confirmed files could not be moved", slog.String("error", warning.Error()))
	return warning
}

// latestByEntryID keeps, for every entry id, the row inserted last.
// The result keeps staging order.
func latestByEntryID(staged []domain.Entry) []domain.Entry {
	latest := make(map[string]int, len(staged))
	for i, e := range staged {
		if j, ok := latest[e.EntryID]; !ok || e.Seq >= staged[j].Seq {
			latest[e.EntryID] = i
		}
	}
	out := make([]domain.Entry, 0, len(latest))
	for i, e := range staged {
		if latest[e.EntryID] == i {
			out = append(out, e)
		}
	}
	return out
}

// otherSets returns the distinct sets of entries that are not among keys.
func otherSets(entries []domain.Entry, keys []domain.SetKey) []domain.SetKey {
	var out []domain.SetKey
	for _, e := range entries {
		if !heldBy(keys, e) && !heldBy(out, e) {
			out = append(out, e.SetKey())
		}
	}
	return out
}

func heldBy(keys []domain.SetKey, e domain.Entry) bool {
	for _, k := range keys {
		if k.Holds(e) {
			return true
		}
	}
	return false
}

func sourceFiles(entries []domain.Entry) []string {
	seen := make(map[string]struct{})
	files := []string{}
	for _, e := range entries {
		if e.SourceFile == "" {
			continue
		}
		if _, ok := seen[e.SourceFile]; ok {
			continue
		}
		seen[e.SourceFile] = struct{}{}
		files = append(files, e.SourceFile)
	}
	sort.Strings(files)
	return files
}
