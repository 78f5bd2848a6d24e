package persist

import (
	"context"
	"errors"
)

// Backend stores and retrieves the serialized profile document. The
// writer is the only component that touches the backing location;
// nothing else reads or writes it.
type Backend interface {
	// WriteSnapshot durably replaces the stored document. The previous
	// document must survive intact if the write fails partway.
	WriteSnapshot(ctx context.Context, data []byte) error

	// ReadSnapshot returns the stored document, or ErrNoSnapshot if
	// nothing has been saved yet.
	ReadSnapshot(ctx context.Context) ([]byte, error)
}

// ErrNoSnapshot is returned by ReadSnapshot when no document exists.
// A first run with no save file is normal, not an error condition.
var ErrNoSnapshot = errors.New("no snapshot present")
