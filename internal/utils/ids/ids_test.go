package ids_test

import (
	"sort"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_ingest/internal/utils/ids"
)

func TestNewBatchID_SortsInCreationOrder(t *testing.T) {
	got := make([]string, 100)
	for i := range got {
		got[i] = ids.NewBatchID()
	}

	assert.True(t, sort.StringsAreSorted(got))
	seen := make(map[string]bool, len(got))
	for _, id := range got {
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
