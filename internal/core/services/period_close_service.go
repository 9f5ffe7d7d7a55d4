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

// periodCloseService implements the PeriodCloseSvc interface
type periodCloseService struct {
	BaseService
	repo     portsrepo.LedgerRepositoryFacade
	codes    SubjectNamer
	retained domain.SubjectCode
}

// NewPeriodCloseService creates a new period close service.
// retained is the equity code that receives the month's net income.
func NewPeriodCloseService(repo portsrepo.LedgerRepositoryFacade, codes SubjectNamer, retained domain.SubjectCode, options ...Option) (portssvc.PeriodCloseSvc, error) {
	if !retained.Valid() || retained.IsProfitAndLoss() {
		return nil, fmt.Errorf("%w: retained earnings code %s must be a balance sheet code", domain.ErrInvalidSubjectCode, retained)
	}
	svc := &periodCloseService{
		repo:     repo,
		codes:    codes,
		retained: retained,
	}
	applyOptions(&svc.BaseService, options)
	return svc, nil
}

var _ portssvc.PeriodCloseSvc = (*periodCloseService)(nil)

// Close zeroes the period's P/L accounts into retained earnings.
func (s *periodCloseService) Close(ctx context.Context, period domain.Period, reclose bool) (*domain.CloseResult, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPeriod, period)
	}
	logger := s.GetLogger(ctx).With(slog.String("period", period.String()), slog.Bool("reclose", reclose))

	result := &domain.CloseResult{Period: period, Legs: []domain.Entry{}}
	err := s.repo.RunInTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
		zeroing, err := store.CountLegs(ctx, period, domain.LegClosingZero)
		if err != nil {
			return fmt.Errorf("reading close state: %w", err)
		}
		if zeroing > 0 && !reclose {
			result.Outcome = domain.CloseOutcomeAlreadyClosed
			return nil
		}

		if reclose {
			result.DeletedLegs, err = store.DeletePermanentLegs(ctx, period, domain.LegClosingZero, domain.LegClosingTransfer)
			if err != nil {
				return fmt.Errorf("removing previous closing legs: %w", err)
			}
		}

		balances, err := store.SumProfitAndLoss(ctx, period)
		if err != nil {
			return fmt.Errorf("summing profit and loss: %w", err)
		}
		if len(balances) == 0 {
			result.Outcome = domain.CloseOutcomeNothingToClose
			return nil
		}

		for i := range balances {
			balances[i].Subject = s.codes.Name(balances[i].SubjectCode)
		}
		retained := domain.AccountAmount{SubjectCode: s.retained, Subject: s.codes.Name(s.retained)}
		legs, netIncome := accounting.BuildClosingLegs(period, balances, retained)

		confirmedAt := s.CurrentTime()
		for i := range legs {
			legs[i].ConfirmedAt = &confirmedAt
		}
		if err := store.AppendPermanent(ctx, legs); err != nil {
			return fmt.Errorf("writing closing legs: %w", err)
		}

		result.SetID = domain.ClosingSetID(period)
		result.NetIncome = netIncome
		result.Legs = legs
		result.Outcome = domain.CloseOutcomeClosed
		if result.DeletedLegs > 0 {
			result.Outcome = domain.CloseOutcomeReclosed
		}
		return nil
	})
	if err != nil {
		s.Metrics.ObserveClose("error")
		s.LogError(ctx, err, "Period close failed", slog.String("period", period.String()))
		return nil, err
	}

	s.Metrics.ObserveClose(string(result.Outcome))
	switch result.Outcome {
	case domain.CloseOutcomeAlreadyClosed:
		logger.Info("Period already closed")
	case domain.CloseOutcomeNothingToClose:
		logger.Info("Nothing to close", slog.Int64("deleted_legs", result.DeletedLegs))
	default:
		logger.Info("Period closed",
			slog.String("outcome", string(result.Outcome)),
			slog.Int("legs", len(result.Legs)),
			slog.Int64("deleted_legs", result.DeletedLegs),
			slog.String("net_income", result.NetIncome.StringFixed(2)))
	}
	return result, nil
}

// State reports OPEN or CLOSED. It reads without taking the write lock.
func (s *periodCloseService) State(ctx context.Context, period domain.Period) (domain.PeriodState, error) {
	if !period.Valid() {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidPeriod, period)
	}
	n, err := s.repo.CountLegs(ctx, period, domain.LegClosingZero)
	if err != nil {
		s.LogError(ctx, err, "Failed to read period state", slog.String("period", period.String()))
		return "", fmt.Errorf("reading close state: %w", err)
	}
	if n > 0 {
		return domain.PeriodClosed, nil
	}
	return domain.PeriodOpen, nil
}
