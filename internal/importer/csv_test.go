package importer_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/importer"
)

func TestParseStagingCSV(t *testing.T) {
	data := "\ufeffDate,Set_ID,Subject_Code,Amount,Remarks\n" +
		"2024-03-01,S1,500,\"1,000.00\",groceries\n" +
		"2024/03/01,S1,100,-1000,groceries\n" +
		"\n" +
		"2024-01-01,OPEN,100,5000,carry over\n"

	entries, err := importer.ParseStagingCSV(strings.NewReader(data), "march.csv")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	first := entries[0]
	assert.Equal(t, "S1_001", first.EntryID)
	assert.Equal(t, "S1", first.SetID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, domain.SubjectCode(500), first.SubjectCode)
	assert.True(t, decimal.RequireFromString("1000").Equal(first.Amount))
	assert.Equal(t, domain.LegImport, first.Kind)
	assert.Equal(t, "march.csv", first.SourceFile)

	assert.Equal(t, "S1_002", entries[1].EntryID)
	assert.Equal(t, entries[0].Date, entries[1].Date)

	assert.Equal(t, "OPEN_001", entries[2].EntryID)
	assert.Equal(t, domain.LegCarryForward, entries[2].Kind)
}

func TestParseStagingCSV_ExplicitColumns(t *testing.T) {
	data := "date,set_id,entry_id,subject_code,amount,kind\n" +
		"2024-03-01,S1,X-1,500,10,import\n"

	entries, err := importer.ParseStagingCSV(strings.NewReader(data), "f.csv")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "X-1", entries[0].EntryID)
	assert.Equal(t, domain.LegImport, entries[0].Kind)
}

func TestParseStagingCSV_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantLine int
	}{
		{"empty file", "", 0},
		{"missing column", "date,set_id,amount\n2024-03-01,S1,10\n", 0},
		{"header only", "date,set_id,subject_code,amount\n", 0},
		{"bad date", "date,set_id,subject_code,amount\n03/01/2024,S1,500,10\n", 2},
		{"bad code", "date,set_id,subject_code,amount\n2024-03-01,S1,50,10\n", 2},
		{"bad amount", "date,set_id,subject_code,amount\n2024-03-01,S1,500,ten\n", 2},
		{"missing set", "date,set_id,subject_code,amount\n2024-03-01,S1,500,10\n2024-03-01,,500,10\n", 3},
		{"reserved set id", "date,set_id,subject_code,amount\n2024-03-01,CLOSE-2024-03,500,10\n", 2},
		{"reserved entry id", "date,set_id,entry_id,subject_code,amount\n2024-03-01,S1,CLOSE-2024-03_500,500,10\n", 2},
		{"bad kind", "date,set_id,subject_code,amount,kind\n2024-03-01,S1,500,10,OTHER\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.ParseStagingCSV(strings.NewReader(tt.data), "f.csv")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation), "got %v", err)

			var rowErr *importer.RowError
			if tt.wantLine > 0 {
				require.True(t, errors.As(err, &rowErr))
				assert.Equal(t, tt.wantLine, rowErr.Line)
			} else {
				assert.False(t, errors.As(err, &rowErr))
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-03-05", "2024/03/05", "2024/3/5", "2024-3-5"} {
		d, err := importer.ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)
	}
	_, err := importer.ParseDate("5 March 2024")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
