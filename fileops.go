package ssfs

import (
	"fmt"

	"github.com/ssfs/ssfs/internal/layout"
)

// fileSize walks the indirect chain starting at inodeNb and sums each
// inode's own size field (spec.md §3: "size... of this inode's portion
// only"). Implemented iteratively, not recursively, per spec.md §9
// re-architecture note 4.
func (m *Mount) fileSize(inodeNb int32) (int64, error) {
	var total int64
	cur := inodeNb
	for cur != -1 {
		n, err := m.loadInode(cur)
		if err != nil {
			return 0, err
		}
		total += int64(n.size)
		cur = n.indirect
	}
	return total, nil
}

// Open implements spec.md §4.7. A name not currently in the directory is
// created: a fresh inode, a directory entry, and a new handle with both
// cursors at zero. An existing name either returns its already-open handle
// or opens a fresh one in append mode (read cursor 0, write cursor at
// end-of-file). It returns ErrNoSpace, never handle 0, when every
// allocation path for a new file is exhausted (spec.md §9 note 1 fix).
func (m *Mount) Open(name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inodeNb, found := m.dir.lookup(name)
	if !found {
		return m.openNewLocked(name)
	}
	return m.openExistingLocked(inodeNb)
}

func (m *Mount) openNewLocked(name string) (int, error) {
	inodeNb, err := m.allocateInode()
	if err != nil {
		return -1, fmt.Errorf("ssfs: open %q: %w", name, err)
	}
	if err := m.dir.insert(m.dev, name, inodeNb); err != nil {
		return -1, fmt.Errorf("ssfs: open %q: %w", name, err)
	}
	slot := m.hdl.FirstFree()
	if slot == -1 {
		return -1, fmt.Errorf("ssfs: open %q: %w", name, ErrNoSpace)
	}
	if err := m.hdl.Open(slot, inodeNb, 0, 0); err != nil {
		return -1, err
	}
	return slot, nil
}

func (m *Mount) openExistingLocked(inodeNb int32) (int, error) {
	if slot := m.hdl.FindByInode(inodeNb); slot != -1 {
		return slot, nil
	}
	slot := m.hdl.FirstFree()
	if slot == -1 {
		return -1, fmt.Errorf("ssfs: open: %w", ErrNoSpace)
	}
	size, err := m.fileSize(inodeNb)
	if err != nil {
		return -1, err
	}
	if err := m.hdl.Open(slot, inodeNb, 0, size); err != nil {
		return -1, err
	}
	return slot, nil
}

func validFileID(id int) bool {
	return id >= 0 && id < layout.MaxUserFiles
}

// Close implements spec.md §4.8: validate fileID, clear the handle. No data
// is flushed — every write is already write-through. Closing an
// already-closed handle is an error (spec.md §8 property 3).
func (m *Mount) Close(fileID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !validFileID(fileID) {
		return fmt.Errorf("ssfs: close %d: %w", fileID, ErrInvalidArgument)
	}
	h, err := m.hdl.Get(fileID)
	if err != nil {
		return err
	}
	if !h.Open() {
		return fmt.Errorf("ssfs: close %d: %w", fileID, ErrNotOpen)
	}
	return m.hdl.Close(fileID)
}

// Remove implements spec.md §4.13. Unlike the original implementation,
// locating the file is a pure directory lookup, never an Open call with its
// create-on-miss side effect (spec.md §9 note 2 fix). The inode chain is
// reclaimed indirect-first via an explicit stack rather than recursion
// (spec.md §9 re-architecture note 4), then any open handle on the removed
// inode is invalidated.
func (m *Mount) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inodeNb, found := m.dir.lookup(name)
	if !found {
		return fmt.Errorf("ssfs: remove %q: %w", name, ErrNotFound)
	}

	if err := m.dir.removeEntry(m.dev, name); err != nil {
		return fmt.Errorf("ssfs: remove %q: %w", name, err)
	}

	if err := m.reclaimChain(inodeNb); err != nil {
		return fmt.Errorf("ssfs: remove %q: %w", name, err)
	}

	m.hdl.CloseByInode(inodeNb)
	return nil
}

// reclaimChain frees every inode and data block in the chain rooted at
// inodeNb, innermost (indirect) link first, matching
// original_source/sfs_api.c's ssfs_remove_inode but iterative instead of
// recursive.
func (m *Mount) reclaimChain(inodeNb int32) error {
	var stack []int32
	for cur := inodeNb; cur != -1; {
		n, err := m.loadInode(cur)
		if err != nil {
			return err
		}
		stack = append(stack, cur)
		cur = n.indirect
	}

	for i := len(stack) - 1; i >= 0; i-- {
		id := stack[i]
		n, err := m.loadInode(id)
		if err != nil {
			return err
		}
		for _, d := range n.direct {
			if d != -1 {
				if err := m.freeDataBlock(d); err != nil {
					return err
				}
			}
		}
		n.size = -1
		for j := range n.direct {
			n.direct[j] = -1
		}
		n.indirect = -1
		if err := m.saveInode(id, n); err != nil {
			return err
		}
		// the indirect inode itself (everything but the head of the
		// chain) occupies an inode slot, not a data block; it is freed by
		// the size=-1 write above, matching spec.md invariant 2.
	}
	return nil
}
