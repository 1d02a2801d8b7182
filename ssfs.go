package ssfs

import (
	"fmt"

	"github.com/ssfs/ssfs/backend"
	backendfile "github.com/ssfs/ssfs/backend/file"
	"github.com/ssfs/ssfs/internal/layout"
)

// DefaultBackingPath is the default backing-store file name SSFS mounts
// against when the caller does not specify one (spec.md §6: "a fixed
// string (the default is a 14-character identifier)").
const DefaultBackingPath = "ssfs_disk0.img"

// Size is the exact byte size of a conformant SSFS backing store
// (spec.md §6): layout.TotalBlocks blocks of layout.BlockSize bytes each.
const Size = layout.TotalBlocks * layout.BlockSize

// MountFresh creates (or truncates and reformats) the backing file at path
// and formats a fresh SSFS volume on it.
func MountFresh(path string) (*Mount, error) {
	if path == "" {
		path = DefaultBackingPath
	}
	storage, err := backendfile.CreateFromPath(path, Size)
	if err != nil {
		return nil, fmt.Errorf("ssfs: creating backing store %s: %w", path, err)
	}
	return Format(storage, true)
}

// MountExisting attaches to an already-formatted SSFS backing store at
// path without modifying it.
func MountExisting(path string) (*Mount, error) {
	if path == "" {
		path = DefaultBackingPath
	}
	storage, err := backendfile.OpenFromPath(path, false)
	if err != nil {
		return nil, fmt.Errorf("ssfs: opening backing store %s: %w", path, err)
	}
	return Format(storage, false)
}

// MountStorage formats or attaches to an arbitrary backend.Storage, letting
// callers supply an in-memory or test double instead of a real file
// (e.g. testhelper.MemStorage).
func MountStorage(storage backend.Storage, fresh bool) (*Mount, error) {
	return Format(storage, fresh)
}

// MountAt formats or attaches to an SSFS volume embedded at a byte offset
// inside a larger backing store, via backend.Sub, instead of requiring the
// whole file to be exactly Size bytes. This lets an SSFS image live
// alongside other data in one container file — e.g. appended after a
// header block a caller manages itself.
func MountAt(storage backend.Storage, offset int64, fresh bool) (*Mount, error) {
	return Format(backend.Sub(storage, offset, Size), fresh)
}
