package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"2024-03", Period{2024, 3}, false},
		{"2024-3", Period{2024, 3}, false},
		{"2024-12", Period{2024, 12}, false},
		{"2024-13", Period{}, true},
		{"2024-00", Period{}, true},
		{"24-03", Period{}, true},
		{"2024/03", Period{}, true},
		{"", Period{}, true},
		{"2024-03-01", Period{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPeriod))
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_Days(t *testing.T) {
	p := Period{Year: 2024, Month: 2}
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), p.FirstDay())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.LastDay())
	assert.Equal(t, "2024-02", p.String())
}

func TestPeriod_Ordering(t *testing.T) {
	dec := Period{Year: 2023, Month: 12}
	jan := Period{Year: 2024, Month: 1}

	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(dec))
	assert.Equal(t, jan, dec.AddMonths(1))
	assert.Equal(t, dec, jan.AddMonths(-1))
	assert.Equal(t, jan, PeriodOf(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
}
