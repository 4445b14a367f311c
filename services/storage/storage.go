package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotExist is returned when a stored object cannot be found
var ErrNotExist = errors.New("storage: object does not exist")

// Backend is the storage abstraction for uploaded documents. Keys are opaque
// identifiers generated by the server; client-supplied filenames never become
// storage paths.
type Backend interface {
	// Save writes the object under key and returns the number of bytes written
	Save(ctx context.Context, key string, data io.Reader) (int64, error)

	// Open returns a reader for the object. The caller must close it.
	// Returns ErrNotExist if the object is missing.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the object is present
	Exists(ctx context.Context, key string) (bool, error)
}

// GenerateKey builds a unique storage key for an upload. The original
// filename contributes only its extension; the rest is a random UUID.
func GenerateKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
