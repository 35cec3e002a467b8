package store

import (
	"fmt"
	"io"

	"github.com/etnz/twfolio"
)

// Backends.
const (
	JSONL  = "jsonl"
	SQLITE = "sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open opens the ledger of the given backend at path. The returned closer
// releases the backend resources.
func Open(backend, path string) (twfolio.Store, io.Closer, error) {
	switch backend {
	case "", JSONL:
		return NewFile(path), nopCloser{}, nil
	case SQLITE:
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q, want %q or %q", backend, JSONL, SQLITE)
	}
}
