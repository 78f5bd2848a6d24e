package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangsom/minime/internal/persist"
)

// Backend persists the profile document as a single JSON file. Writes
// go to a temporary sibling first and are renamed onto the canonical
// path, so the canonical file is always a complete prior or current
// version, never a partial write.
type Backend struct {
	path string
}

// New creates a file backend for the given save path
func New(path string) *Backend {
	return &Backend{path: path}
}

// Ensure Backend implements the interface
var _ persist.Backend = (*Backend)(nil)

// Path returns the canonical save path
func (b *Backend) Path() string {
	return b.path
}

func (b *Backend) WriteSnapshot(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp save file: %w", err)
	}

	if err := os.Rename(tmp, b.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}

func (b *Backend) ReadSnapshot(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persist.ErrNoSnapshot
		}
		return nil, fmt.Errorf("read save file: %w", err)
	}
	return data, nil
}
