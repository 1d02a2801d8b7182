// Package testhelper provides fakes for exercising the ssfs library without
// touching a real file on disk.
package testhelper

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ssfs/ssfs/backend"
)

// MemStorage is an in-memory backend.Storage backed by a plain byte slice,
// used by ssfs's tests in place of a real backing file. It replaces the
// closure-based FileImpl this package used to export: SSFS needs a full
// backend.Storage (ReadAt/WriteAt/Writable/Sys), not just a reader/writer
// pair, so the fake grew to match.
type MemStorage struct {
	data []byte
}

// NewMemStorage allocates a zeroed in-memory backing store of the given
// size.
func NewMemStorage(size int64) *MemStorage {
	return &MemStorage{data: make([]byte, size)}
}

var _ backend.Storage = (*MemStorage)(nil)

func (m *MemStorage) Stat() (fs.FileInfo, error) {
	return memFileInfo{size: int64(len(m.data))}, nil
}

func (m *MemStorage) Read(b []byte) (int, error) {
	return m.ReadAt(b, 0)
}

func (m *MemStorage) Close() error { return nil }

func (m *MemStorage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.data)) {
		return 0, fmt.Errorf("testhelper: offset %d out of range", off)
	}
	n := copy(p, m.data[off:])
	return n, nil
}

func (m *MemStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("testhelper: negative offset %d", off)
	}
	end := off + int64(len(p))
	if end > int64(len(m.data)) {
		return 0, fmt.Errorf("testhelper: write at %d,%d exceeds backing size %d", off, len(p), len(m.data))
	}
	return copy(m.data[off:end], p), nil
}

func (m *MemStorage) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("testhelper: MemStorage does not support Seek")
}

func (m *MemStorage) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

func (m *MemStorage) Writable() (backend.WritableFile, error) {
	return m, nil
}

type memFileInfo struct {
	size int64
}

func (i memFileInfo) Name() string       { return "mem" }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() fs.FileMode  { return 0o600 }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() interface{}   { return nil }
