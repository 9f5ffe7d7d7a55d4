package services

import (
	"time"

	"github.com/SscSPs/ledger_ingest/internal/platform/metrics"
)

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithMetrics records service outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) {
		s.Now = now
	}
}

func applyOptions(base *BaseService, options []Option) {
	for _, option := range options {
		option(base)
	}
}
