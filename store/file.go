// Package store implements the ledger storage backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/etnz/twfolio"
)

// File is a ledger stored as a JSONL file, one transaction per line, in
// append order. It is safe for concurrent use within a process.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns the ledger stored at path. The file is created on the first
// append.
func NewFile(path string) *File { return &File{path: path} }

// Path returns the ledger file path.
func (f *File) Path() string { return f.path }

// List decodes the whole ledger. A missing file is an empty ledger.
func (f *File) List(context.Context) ([]twfolio.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list()
}

func (f *File) list() ([]twfolio.Transaction, error) {
	r, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", f.path, err)
	}
	defer r.Close()
	txs, err := twfolio.DecodeLedger(r)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", f.path, err)
	}
	return txs, nil
}

// Append writes tx at the end of the ledger.
func (f *File) Append(_ context.Context, tx twfolio.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("cannot create ledger directory: %w", err)
	}
	w, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open ledger %q: %w", f.path, err)
	}
	if err := twfolio.EncodeTransaction(w, tx); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Delete removes the index-th transaction and rewrites the file.
func (f *File) Delete(_ context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs, err := f.list()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(txs) {
		return fmt.Errorf("%w: %d not in [0, %d)", twfolio.ErrIndexOutOfRange, index, len(txs))
	}
	txs = append(txs[:index], txs[index+1:]...)
	return f.rewrite(txs)
}

// rewrite replaces the ledger atomically with txs.
func (f *File) rewrite(txs []twfolio.Transaction) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".ledger-*.jsonl")
	if err != nil {
		return fmt.Errorf("cannot create temporary ledger: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := twfolio.EncodeLedger(tmp, txs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write temporary ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("cannot replace ledger %q: %w", f.path, err)
	}
	return nil
}
