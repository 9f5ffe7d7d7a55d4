// Package filesystem keeps imported files in an unconfirmed and a confirmed directory.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
)

// UploadStore moves files between the uploads and confirmed directories.
type UploadStore struct {
	uploadsDir   string
	confirmedDir string
}

var _ portsrepo.UploadStore = (*UploadStore)(nil)

// NewUploadStore creates both directories if they are missing.
func NewUploadStore(uploadsDir, confirmedDir string) (*UploadStore, error) {
	for _, d := range []string{uploadsDir, confirmedDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return &UploadStore{uploadsDir: uploadsDir, confirmedDir: confirmedDir}, nil
}

// Save writes r to uploads/<name>, replacing an older unconfirmed copy.
func (s *UploadStore) Save(name string, r io.Reader) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dst := filepath.Join(s.uploadsDir, name)
	tmp, err := os.CreateTemp(s.uploadsDir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating upload %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing upload %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing upload %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("storing upload %s: %w", name, err)
	}
	return dst, nil
}

// MarkConfirmed moves uploads/<name> to confirmed/<name>.
// A file that was never uploaded, or was already moved, is left alone.
func (s *UploadStore) MarkConfirmed(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	src := filepath.Join(s.uploadsDir, name)
	dst := filepath.Join(s.confirmedDir, name)

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", src, dst, err)
	}
	return nil
}

// ListUnconfirmed returns the regular files waiting in the uploads directory.
func (s *UploadStore) ListUnconfirmed() ([]string, error) {
	entries, err := os.ReadDir(s.uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.uploadsDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid file name %q", apperrors.ErrValidation, name)
	}
	return nil
}
