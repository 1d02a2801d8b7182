package ssfs

import (
	"fmt"

	"github.com/ssfs/ssfs/internal/handles"
	"github.com/ssfs/ssfs/internal/layout"
)

const blocksPerInode = layout.DirectPointers

// resolvedBlock is everything one iteration of the read/write loop needs to
// touch a single block: which inode currently owns it, which data block it
// lives in, the byte offset within that block to start at, and the inode's
// local offset (cursor minus the span already consumed by earlier links in
// the indirect chain — spec.md §4.11: "size stored in the inode only counts
// its own 14 blocks").
type resolvedBlock struct {
	inodeNb      int32
	dataBlockIdx int32
	offsetInBlock int
	localOffset  int64
}

// resolveBlock walks the indirect chain rooted at head to the inode and
// block that covers byte position cursor, iteratively re-resolving after
// each jump (spec.md §4.10/§4.11: "a straight-line implementation must
// re-resolve the block index after each advance" — this is that resolution
// step, called once per loop iteration instead of being inlined twice).
// When allocate is true, missing inode links and data blocks are created as
// needed (the write path); when false, a missing link is reported as
// ErrOutOfRange (the read path, which should never need to allocate within a
// file's existing size).
func (m *Mount) resolveBlock(head int32, cursor int64, allocate bool) (resolvedBlock, error) {
	localOffset := cursor
	inodeNb := head
	blockIdx := int64(localOffset) / layout.BlockSize

	for blockIdx >= blocksPerInode {
		n, err := m.loadInode(inodeNb)
		if err != nil {
			return resolvedBlock{}, err
		}
		if n.indirect == -1 {
			if !allocate {
				return resolvedBlock{}, ErrOutOfRange
			}
			next, err := m.allocateInode()
			if err != nil {
				return resolvedBlock{}, err
			}
			n.indirect = next
			if err := m.saveInode(inodeNb, n); err != nil {
				return resolvedBlock{}, err
			}
		}
		inodeNb = n.indirect
		localOffset -= blocksPerInode * layout.BlockSize
		blockIdx = localOffset / layout.BlockSize
	}

	n, err := m.loadInode(inodeNb)
	if err != nil {
		return resolvedBlock{}, err
	}
	dataBlockIdx := n.direct[blockIdx]
	if dataBlockIdx == -1 {
		if !allocate {
			return resolvedBlock{}, ErrOutOfRange
		}
		dataBlockIdx, err = m.allocateDataBlockForInode(inodeNb)
		if err != nil {
			return resolvedBlock{}, err
		}
	}

	return resolvedBlock{
		inodeNb:       inodeNb,
		dataBlockIdx:  dataBlockIdx,
		offsetInBlock: int(localOffset % layout.BlockSize),
		localOffset:   localOffset,
	}, nil
}

// Read implements spec.md §4.10. Iterative, not recursive (spec.md §9
// re-architecture note 4): a loop resolves one block at a time, copies the
// lesser of the remaining request and the current block's remainder, and
// advances the read cursor. A request extending past end-of-file is
// clamped, not errored (spec.md §7).
func (m *Mount) Read(fileID int, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(buf) == 0 {
		return 0, nil
	}
	if !validFileID(fileID) {
		return 0, fmt.Errorf("ssfs: read %d: %w", fileID, ErrInvalidArgument)
	}
	h, err := m.hdl.Get(fileID)
	if err != nil {
		return 0, err
	}
	if !h.Open() {
		return 0, fmt.Errorf("ssfs: read %d: %w", fileID, ErrNotOpen)
	}

	size, err := m.fileSize(h.InodeNb)
	if err != nil {
		return 0, err
	}
	length := len(buf)
	if remaining := size - h.ReadCursor; int64(length) > remaining {
		if remaining < 0 {
			remaining = 0
		}
		m.log.Warnf("read %d: clamping request of %d bytes to %d remaining bytes", fileID, length, remaining)
		length = int(remaining)
	}

	total := 0
	for total < length {
		rb, err := m.resolveBlock(h.InodeNb, h.ReadCursor, false)
		if err != nil {
			return total, err
		}
		block, err := m.dev.readBlock(dataBlockPhys(rb.dataBlockIdx))
		if err != nil {
			return total, err
		}
		chunk := layout.BlockSize - rb.offsetInBlock
		if remaining := length - total; chunk > remaining {
			chunk = remaining
		}
		copy(buf[total:total+chunk], block[rb.offsetInBlock:rb.offsetInBlock+chunk])
		total += chunk
		h.ReadCursor += int64(chunk)
	}

	if err := m.hdl.Set(fileID, h); err != nil {
		return total, err
	}
	return total, nil
}

// Write implements spec.md §4.11. Iterative, not recursive. Each iteration
// resolves the target block (allocating a data block, inode block, or
// indirect continuation inode as needed), copies in place, updates the
// owning inode's local size if the write extended it, and advances the
// write cursor.
func (m *Mount) Write(fileID int, buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(buf) == 0 {
		return 0, nil
	}
	if !validFileID(fileID) {
		return 0, fmt.Errorf("ssfs: write %d: %w", fileID, ErrInvalidArgument)
	}
	h, err := m.hdl.Get(fileID)
	if err != nil {
		return 0, err
	}
	if !h.Open() {
		return 0, fmt.Errorf("ssfs: write %d: %w", fileID, ErrNotOpen)
	}

	total := 0
	for total < len(buf) {
		rb, err := m.resolveBlock(h.InodeNb, h.WriteCursor, true)
		if err != nil {
			return total, err
		}
		block, err := m.dev.readBlock(dataBlockPhys(rb.dataBlockIdx))
		if err != nil {
			return total, err
		}
		chunk := layout.BlockSize - rb.offsetInBlock
		if remaining := len(buf) - total; chunk > remaining {
			chunk = remaining
		}
		copy(block[rb.offsetInBlock:rb.offsetInBlock+chunk], buf[total:total+chunk])
		if err := m.dev.writeBlock(dataBlockPhys(rb.dataBlockIdx), block); err != nil {
			return total, err
		}

		if err := m.growInodeSize(rb.inodeNb, rb.localOffset+int64(chunk)); err != nil {
			return total, err
		}

		total += chunk
		h.WriteCursor += int64(chunk)
	}

	if err := m.hdl.Set(fileID, h); err != nil {
		return total, err
	}
	return total, nil
}

// growInodeSize implements spec.md §4.11's "update the inode's size if
// write_cursor + written > size" rule, using the inode-local offset rather
// than the global file cursor so that size always means "this inode's
// portion only" (spec.md §3), not the whole chain's length.
func (m *Mount) growInodeSize(inodeNb int32, newLocalExtent int64) error {
	n, err := m.loadInode(inodeNb)
	if err != nil {
		return err
	}
	if int64(n.size) < newLocalExtent {
		n.size = int32(newLocalExtent)
		return m.saveInode(inodeNb, n)
	}
	return nil
}

// SeekRead implements spec.md §4.9's frseek: validate fileID, loc >= 0, the
// handle is open, and loc <= file_size (seeking exactly to file_size is the
// legal append point).
func (m *Mount) SeekRead(fileID int, loc int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.validateSeek(fileID, loc)
	if err != nil {
		return err
	}
	h.ReadCursor = loc
	return m.hdl.Set(fileID, h)
}

// SeekWrite implements spec.md §4.9's fwseek.
func (m *Mount) SeekWrite(fileID int, loc int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, err := m.validateSeek(fileID, loc)
	if err != nil {
		return err
	}
	h.WriteCursor = loc
	return m.hdl.Set(fileID, h)
}

func (m *Mount) validateSeek(fileID int, loc int64) (handles.Handle, error) {
	if !validFileID(fileID) {
		return handles.Handle{}, fmt.Errorf("ssfs: seek %d: %w", fileID, ErrInvalidArgument)
	}
	if loc < 0 {
		return handles.Handle{}, fmt.Errorf("ssfs: seek %d to %d: %w", fileID, loc, ErrInvalidArgument)
	}
	h, err := m.hdl.Get(fileID)
	if err != nil {
		return handles.Handle{}, err
	}
	if !h.Open() {
		return handles.Handle{}, fmt.Errorf("ssfs: seek %d: %w", fileID, ErrNotOpen)
	}
	size, err := m.fileSize(h.InodeNb)
	if err != nil {
		return handles.Handle{}, err
	}
	if loc > size {
		return handles.Handle{}, fmt.Errorf("ssfs: seek %d to %d past size %d: %w", fileID, loc, size, ErrOutOfRange)
	}
	return h, nil
}
