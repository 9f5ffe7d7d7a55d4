package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/utils/ids"
)

// stagingService implements the StagingSvc interface
type stagingService struct {
	BaseService
	repo       portsrepo.LedgerRepositoryFacade
	codes      SubjectNamer
	newBatchID func() string
}

// NewStagingService creates a new staging service
func NewStagingService(repo portsrepo.LedgerRepositoryFacade, codes SubjectNamer, options ...Option) portssvc.StagingSvc {
	svc := &stagingService{
		repo:       repo,
		codes:      codes,
		newBatchID: ids.NewBatchID,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.StagingSvc = (*stagingService)(nil)

// Stage validates the collaborator's rows and appends them to staging in one unit of work.
func (s *stagingService) Stage(ctx context.Context, req domain.StageRequest) (*domain.StageResult, error) {
	if strings.TrimSpace(req.SourceFile) == "" {
		return nil, fmt.Errorf("%w: source file is required", apperrors.ErrValidation)
	}
	if len(req.Entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to stage", apperrors.ErrValidation)
	}

	result := &domain.StageResult{BatchID: s.newBatchID(), SourceFile: req.SourceFile, Staged: len(req.Entries)}
	entries, err := s.prepare(req, result.BatchID, s.CurrentTime())
	if err != nil {
		return nil, err
	}

	err = s.repo.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		if req.Clear {
			cleared, err := store.ClearStaging(ctx)
			if err != nil {
				return fmt.Errorf("clearing staging: %w", err)
			}
			result.Cleared = cleared
		}

		existing, err := store.CountStagingBySourceFile(ctx, req.SourceFile)
		if err != nil {
			return fmt.Errorf("checking staged source file: %w", err)
		}
		if existing > 0 {
			if !req.Force {
				return fmt.Errorf("%w: %s already has %d staged rows", apperrors.ErrDuplicate, req.SourceFile, existing)
			}
			if result.Replaced, err = store.DeleteStagingBySourceFile(ctx, req.SourceFile); err != nil {
				return fmt.Errorf("replacing staged source file: %w", err)
			}
		}

		if err := store.AppendStaging(ctx, entries); err != nil {
			return fmt.Errorf("appending staging rows: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Source file already staged", slog.String("source_file", req.SourceFile))
		} else {
			s.LogError(ctx, err, "Failed to stage entries", slog.String("source_file", req.SourceFile))
		}
		return nil, err
	}

	s.Metrics.ObserveStaged(len(entries))
	s.LogInfo(ctx, "Entries staged",
		slog.String("batch_id", result.BatchID),
		slog.String("source_file", req.SourceFile),
		slog.Int("staged", result.Staged),
		slog.Int64("cleared", result.Cleared),
		slog.Int64("replaced", result.Replaced))
	return result, nil
}

// Clear empties staging.
func (s *stagingService) Clear(ctx context.Context) (int64, error) {
	var cleared int64
	err := s.repo.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) (err error) {
		cleared, err = store.ClearStaging(ctx)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to clear staging")
		return 0, fmt.Errorf("clearing staging: %w", err)
	}
	s.LogInfo(ctx, "Staging cleared", slog.Int64("rows", cleared))
	return cleared, nil
}

// prepare checks every row at the boundary and fills the derived columns.
func (s *stagingService) prepare(req domain.StageRequest, batchID string, now time.Time) ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0, len(req.Entries))
	seqs := make(map[string]int)
	for i, e := range req.Entries {
		e.SetID = strings.TrimSpace(e.SetID)
		e.EntryID = strings.TrimSpace(e.EntryID)
		seqs[e.SetID]++

		if err := checkStagedEntry(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		if e.EntryID == "" {
			e.EntryID = domain.FormatEntryID(e.SetID, seqs[e.SetID])
		}
		if e.Kind == "" {
			e.Kind = domain.InferLegKind(e.Remarks)
		}
		e.Date = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		e.Year, e.Month = e.Date.Year(), int(e.Date.Month())
		e.Subject = s.codes.Name(e.SubjectCode)
		e.SourceFile = req.SourceFile
		e.BatchID = batchID
		e.CreatedAt = now
		e.ConfirmedAt = nil
		entries = append(entries, e)
	}
	return entries, nil
}

func checkStagedEntry(e domain.Entry) error {
	switch {
	case e.SetID == "":
		return fmt.Errorf("%w: set id is required", apperrors.ErrValidation)
	case !e.SubjectCode.Valid():
		return fmt.Errorf("%w: %d", domain.ErrInvalidSubjectCode, int(e.SubjectCode))
	case e.Date.IsZero():
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	case !e.Amount.Equal(e.Amount.Round(2)):
		return fmt.Errorf("%w: amount %s has more than two decimals", apperrors.ErrValidation, e.Amount)
	case e.Kind.IsClosing():
		return fmt.Errorf("%w: closing legs cannot be imported", apperrors.ErrValidation)
	}
	return domain.CheckImportIDs(e.SetID, e.EntryID)
}
