package filesystem_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/repositories/filesystem"
)

func newStore(t *testing.T) (*filesystem.UploadStore, string, string) {
	t.Helper()
	root := t.TempDir()
	uploads := filepath.Join(root, "uploads")
	confirmed := filepath.Join(root, "confirmed")
	store, err := filesystem.NewUploadStore(uploads, confirmed)
	require.NoError(t, err)
	return store, uploads, confirmed
}

func TestUploadStore_SaveAndConfirm(t *testing.T) {
	store, uploads, confirmed := newStore(t)

	path, err := store.Save("march.csv", strings.NewReader("date,set_id\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(uploads, "march.csv"), path)

	names, err := store.ListUnconfirmed()
	require.NoError(t, err)
	assert.Equal(t, []string{"march.csv"}, names)

	require.NoError(t, store.MarkConfirmed("march.csv"))

	_, err = os.Stat(filepath.Join(uploads, "march.csv"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(filepath.Join(confirmed, "march.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date,set_id\n", string(data))

	names, err = store.ListUnconfirmed()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestUploadStore_SaveReplaces(t *testing.T) {
	store, uploads, _ := newStore(t)

	_, err := store.Save("a.csv", strings.NewReader("old"))
	require.NoError(t, err)
	_, err = store.Save("a.csv", strings.NewReader("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(uploads, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestUploadStore_MarkConfirmedIsIdempotent(t *testing.T) {
	store, _, _ := newStore(t)

	assert.NoError(t, store.MarkConfirmed("never-uploaded.csv"))

	_, err := store.Save("b.csv", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.MarkConfirmed("b.csv"))
	assert.NoError(t, store.MarkConfirmed("b.csv"))
}

func TestUploadStore_RejectsPaths(t *testing.T) {
	store, _, _ := newStore(t)

	for _, name := range []string{"", "..", "../escape.csv", "dir/file.csv"} {
		_, err := store.Save(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, apperrors.ErrValidation, name)
		assert.ErrorIs(t, store.MarkConfirmed(name), apperrors.ErrValidation, name)
	}
}
