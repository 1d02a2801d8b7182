package ssfs

import (
	"github.com/ssfs/ssfs/internal/layout"
)

// resolveInode centralizes the inode_nb/InodesPerBlock, inode_nb%InodesPerBlock
// arithmetic that the original implementation repeated at every call site
// (spec.md §9 re-architecture note 5).
func resolveInode(inodeNb int32) (rootSlot, slotInBlock int) {
	rootSlot = int(inodeNb) / layout.InodesPerBlock
	slotInBlock = int(inodeNb) % layout.InodesPerBlock
	return
}

// loadInodeBlock reads and decodes the inode block addressed by the root
// j-node's rootSlot'th direct pointer.
func (m *Mount) loadInodeBlock(rootSlot int) ([]jnode, error) {
	blockPtr := m.sb.root.direct[rootSlot]
	if blockPtr < 0 {
		return nil, ErrNotFound
	}
	raw, err := m.dev.readBlock(dataBlockPhys(blockPtr))
	if err != nil {
		return nil, err
	}
	inodes := make([]jnode, layout.InodesPerBlock)
	for i := range inodes {
		off := i * layout.InodeSize
		n, err := decodeJnode(raw[off : off+layout.InodeSize])
		if err != nil {
			return nil, err
		}
		inodes[i] = n
	}
	return inodes, nil
}

func (m *Mount) writeInodeBlock(rootSlot int, inodes []jnode) error {
	blockPtr := m.sb.root.direct[rootSlot]
	if blockPtr < 0 {
		return ErrNotFound
	}
	buf := make([]byte, 0, layout.BlockSize)
	for _, n := range inodes {
		buf = append(buf, n.encode()...)
	}
	return m.dev.writeBlock(dataBlockPhys(blockPtr), buf)
}

// loadInode reads a single inode by number.
func (m *Mount) loadInode(inodeNb int32) (jnode, error) {
	rootSlot, slot := resolveInode(inodeNb)
	inodes, err := m.loadInodeBlock(rootSlot)
	if err != nil {
		return jnode{}, err
	}
	return inodes[slot], nil
}

// saveInode writes a single inode by number, re-reading its block so
// sibling inodes in the same block are preserved.
func (m *Mount) saveInode(inodeNb int32, n jnode) error {
	rootSlot, slot := resolveInode(inodeNb)
	inodes, err := m.loadInodeBlock(rootSlot)
	if err != nil {
		return err
	}
	inodes[slot] = n
	return m.writeInodeBlock(rootSlot, inodes)
}

// materializeInodeBlock allocates a fresh data block for root j-node slot
// rootSlot, fills it with 16 empty inodes, and grows the root j-node's size
// accordingly (spec.md §4.4, invariant 5).
func (m *Mount) materializeInodeBlock(rootSlot int) error {
	blockIdx, err := m.allocDataBlock()
	if err != nil {
		return err
	}
	empty := emptyJnode()
	buf := make([]byte, 0, layout.BlockSize)
	for i := 0; i < layout.InodesPerBlock; i++ {
		buf = append(buf, empty.encode()...)
	}
	if err := m.dev.writeBlock(dataBlockPhys(blockIdx), buf); err != nil {
		return err
	}
	m.sb.root.direct[rootSlot] = blockIdx
	m.sb.root.size += layout.BlockSize
	return m.updateSuperblock()
}

// allocateInode implements spec.md §4.4: scan the root j-node's 14 inode
// block slots, lazily materializing a block when needed, and return the
// first inode with size == -1, flipped to 0 (allocated, empty). Inode numbers
// stop at layout.MaxInodes; past that the region is full.
func (m *Mount) allocateInode() (int32, error) {
	for rootSlot := 0; rootSlot < layout.DirectPointers; rootSlot++ {
		if m.sb.root.direct[rootSlot] == -1 {
			if err := m.materializeInodeBlock(rootSlot); err != nil {
				return -1, err
			}
		}
		inodes, err := m.loadInodeBlock(rootSlot)
		if err != nil {
			return -1, err
		}
		for slot, n := range inodes {
			if n.size == -1 {
				if rootSlot*layout.InodesPerBlock+slot >= layout.MaxInodes {
					return -1, ErrNoSpace
				}
				inodes[slot].size = 0
				if err := m.writeInodeBlock(rootSlot, inodes); err != nil {
					return -1, err
				}
				return int32(rootSlot*layout.InodesPerBlock + slot), nil
			}
		}
	}
	return -1, ErrNoSpace
}

// allocDataBlock claims a free data block via the FBM, write-through
// (spec.md §4.3). FBM is updated before the caller first uses the block, per
// spec.md §5's ordering rule preventing double-allocation within one call.
func (m *Mount) allocDataBlock() (int32, error) {
	idx := m.fbm.FirstFree()
	if idx < 0 {
		return -1, ErrNoSpace
	}
	if already, err := m.fbm.Set(idx); err != nil {
		return -1, err
	} else if already {
		return -1, ErrAlreadyInState
	}
	if err := m.flushFBM(); err != nil {
		return -1, err
	}
	return int32(idx), nil
}

func (m *Mount) freeDataBlock(idx int32) error {
	already, err := m.fbm.Clear(int(idx))
	if err != nil {
		return err
	}
	if already {
		m.log.Warnf("freeDataBlock(%d): block already free", idx)
		return nil
	}
	return m.flushFBM()
}

// allocateDataBlockForInode implements spec.md §4.12: find the first empty
// direct slot in the target inode, allocate a block for it via the FBM, and
// persist. Returns ErrNoSpace if the FBM is full, or errFullInode if all
// 14 direct slots are already occupied — callers extend via
// the indirect chain (spec.md §4.11) before calling this.
func (m *Mount) allocateDataBlockForInode(inodeNb int32) (int32, error) {
	n, err := m.loadInode(inodeNb)
	if err != nil {
		return -1, err
	}
	slot := -1
	for i, d := range n.direct {
		if d == -1 {
			slot = i
			break
		}
	}
	if slot == -1 {
		return -1, errFullInode
	}
	blockIdx, err := m.allocDataBlock()
	if err != nil {
		return -1, err
	}
	n.direct[slot] = blockIdx
	if err := m.saveInode(inodeNb, n); err != nil {
		return -1, err
	}
	return blockIdx, nil
}
