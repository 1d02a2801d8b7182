// Package ssfs implements the Simple Shadow File System: a flat,
// single-directory filesystem living inside a fixed-size block device,
// addressed through an in-process file-handle API. See SPEC_FULL.md for the
// full design; the on-disk layout follows spec.md §3 byte-for-byte.
package ssfs

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ssfs/ssfs/backend"
	"github.com/ssfs/ssfs/internal/bitmap"
	"github.com/ssfs/ssfs/internal/handles"
	"github.com/ssfs/ssfs/internal/layout"
)

// Mount is the single owned handle bundling every piece of SSFS's mutable
// state: the free-block bitmap, the cached root j-node/superblock, the root
// directory, and the open-file handle table (spec.md §9 re-architecture
// note 3 — no process-global mutable state). Every exported method takes
// the mu lock, satisfying spec.md §5's "wrap the entire API with a single
// mutex" requirement, grounded on disk.Disk's pattern of a struct owning
// all mutable state behind its methods.
type Mount struct {
	mu sync.Mutex

	dev *blockDevice
	sb  superblock
	fbm *bitmap.Map
	dir *directory
	hdl *handles.Table

	log *logrus.Entry
}

// Format mounts storage as an SSFS volume. When fresh is true the volume is
// reformatted from scratch (spec.md §4.2's fresh mount); otherwise Format
// attaches to and reads the existing on-disk state (the existing-mount
// path), re-deriving every cache from disk as scenario S6 requires.
func Format(storage backend.Storage, fresh bool) (*Mount, error) {
	dev, err := newBlockDevice(storage)
	if err != nil {
		return nil, err
	}

	m := &Mount{
		dev: dev,
		hdl: handles.New(layout.MaxUserFiles),
		log: logrus.WithField("component", "ssfs"),
	}

	if fresh {
		if err := m.formatFresh(); err != nil {
			return nil, fmt.Errorf("ssfs: formatting fresh volume: %w", err)
		}
	} else {
		if err := m.attachExisting(); err != nil {
			return nil, fmt.Errorf("ssfs: attaching existing volume: %w", err)
		}
	}

	if err := m.warmCaches(); err != nil {
		return nil, fmt.Errorf("ssfs: warming caches: %w", err)
	}

	return m, nil
}

// formatFresh writes superblock, inode block 0, directory blocks, and the
// FBM from scratch, per spec.md §4.2.
func (m *Mount) formatFresh() error {
	sb := freshSuperblock()
	if err := m.dev.writeBlock(layout.SuperblockIdx, sb.encode()); err != nil {
		return err
	}
	m.sb = sb

	// inode block 0: slot 0 is the allocated root-directory inode, the
	// other 15 slots start empty.
	rootDirInode := jnode{
		size:     layout.BlockSize * layout.DirBlockCount,
		indirect: -1,
	}
	for i := range rootDirInode.direct {
		rootDirInode.direct[i] = -1
	}
	for i := 0; i < layout.DirBlockCount; i++ {
		rootDirInode.direct[i] = int32(layout.DirBlockStart + i)
	}

	inodeBlockBuf := make([]byte, 0, layout.BlockSize)
	inodeBlockBuf = append(inodeBlockBuf, rootDirInode.encode()...)
	empty := emptyJnode()
	for i := 1; i < layout.InodesPerBlock; i++ {
		inodeBlockBuf = append(inodeBlockBuf, empty.encode()...)
	}
	if err := m.dev.writeBlock(dataBlockPhys(0), inodeBlockBuf); err != nil {
		return err
	}

	if err := writeEmptyDirectoryBlocks(m.dev); err != nil {
		return err
	}

	fbm := bitmap.FromBytes(make([]byte, layout.DataBlocks))
	m.fbm = fbm
	// block 0 (inode block) and the 4 directory blocks are pre-allocated.
	for _, idx := range []int{0, layout.DirBlockStart, layout.DirBlockStart + 1, layout.DirBlockStart + 2, layout.DirBlockStart + 3} {
		if _, err := m.fbm.Set(idx); err != nil {
			return err
		}
	}
	if err := m.flushFBM(); err != nil {
		return err
	}

	// write-mask: reserved, always zeroed (spec.md §3, Out of scope).
	return m.dev.writeBlock(layout.WriteMaskIdx, make([]byte, layout.BlockSize))
}

// attachExisting reads the superblock and FBM from disk without modifying
// anything.
func (m *Mount) attachExisting() error {
	raw, err := m.dev.readBlock(layout.SuperblockIdx)
	if err != nil {
		return err
	}
	sb, err := decodeSuperblock(raw)
	if err != nil {
		return err
	}
	m.sb = sb

	fbmRaw, err := m.dev.readBlock(layout.FBMIdx)
	if err != nil {
		return err
	}
	m.fbm = bitmap.FromBytes(fbmRaw[:layout.DataBlocks])
	return nil
}

// warmCaches loads the root directory into memory and resets the handle
// table, run after either format path completes (spec.md §4.2).
func (m *Mount) warmCaches() error {
	dir, err := loadDirectory(m.dev)
	if err != nil {
		return err
	}
	m.dir = dir
	m.hdl = handles.New(layout.MaxUserFiles)
	return nil
}

func (m *Mount) flushFBM() error {
	buf := make([]byte, layout.BlockSize)
	copy(buf, m.fbm.ToBytes())
	return m.dev.writeBlock(layout.FBMIdx, buf)
}

// updateSuperblock persists the cached superblock (root j-node, volume id,
// shadow roots) back to block 0. Called after any mutation to m.sb.root.
func (m *Mount) updateSuperblock() error {
	return m.dev.writeBlock(layout.SuperblockIdx, m.sb.encode())
}

// dataBlockPhys translates a logical data-block index (0..1023, as stored
// in FBM/jnode pointers) to its physical block number on the device.
func dataBlockPhys(i int32) int {
	return layout.DataStartIdx + int(i)
}
