package repositories

import "io"

// UploadStore keeps the provenance copies of imported files.
// Files wait in an unconfirmed area until their rows are confirmed.
type UploadStore interface {
	// Save stores an uploaded file in the unconfirmed area under name.
	Save(name string, r io.Reader) (string, error)

	// MarkConfirmed moves name from the unconfirmed to the confirmed area.
	// It is idempotent: a file already moved is not an error.
	MarkConfirmed(name string) error

	// ListUnconfirmed returns the names waiting in the unconfirmed area.
	ListUnconfirmed() ([]string, error)
}
