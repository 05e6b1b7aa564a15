package logging

import (
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// TruncatingFile is an append-only log file that can be emptied in place
// while writers keep using it.
type TruncatingFile struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func OpenTruncatingFile(path string) (*TruncatingFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open log file %s", path)
	}
	return &TruncatingFile{path: path, f: f}, nil
}

func (t *TruncatingFile) Path() string {
	return t.path
}

func (t *TruncatingFile) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.f == nil {
		return 0, os.ErrClosed
	}
	return t.f.Write(p)
}

// Truncate empties the file. Later writes start at offset 0 because the
// file is opened with O_APPEND.
func (t *TruncatingFile) Truncate() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.f == nil {
		return os.ErrClosed
	}
	if err := t.f.Truncate(0); err != nil {
		return pkgerrors.Wrapf(err, "failed to truncate %s", t.path)
	}
	return nil
}

func (t *TruncatingFile) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	return err
}
