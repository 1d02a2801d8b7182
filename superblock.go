package ssfs

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/ssfs/ssfs/internal/layout"
)

// jnode is the on-disk shape shared by the root j-node and every inode
// (spec.md §3): a size field, 14 direct block pointers, and one
// continuation pointer. -1 is the on-disk "unused" sentinel, and the code
// in this package compares fields against -1 directly; there is no separate
// option-typed inode.
type jnode struct {
	size     int32
	direct   [layout.DirectPointers]int32
	indirect int32
}

func emptyJnode() jnode {
	j := jnode{size: -1, indirect: -1}
	for i := range j.direct {
		j.direct[i] = -1
	}
	return j
}

func (j jnode) encode() []byte {
	b := make([]byte, layout.InodeSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(j.size))
	for i, d := range j.direct {
		off := 4 + i*4
		binary.LittleEndian.PutUint32(b[off:off+4], uint32(d))
	}
	off := 4 + layout.DirectPointers*4
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(j.indirect))
	return b
}

func decodeJnode(b []byte) (jnode, error) {
	if len(b) < layout.InodeSize {
		return jnode{}, fmt.Errorf("ssfs: short jnode buffer (%d bytes)", len(b))
	}
	var j jnode
	j.size = int32(binary.LittleEndian.Uint32(b[0:4]))
	for i := range j.direct {
		off := 4 + i*4
		j.direct[i] = int32(binary.LittleEndian.Uint32(b[off : off+4]))
	}
	off := 4 + layout.DirectPointers*4
	j.indirect = int32(binary.LittleEndian.Uint32(b[off : off+4]))
	return j, nil
}

// superblockHeaderSize is magic + blockSize + fsSize + inodeCount, each a
// little-endian 32-bit field, per spec.md §3.
const superblockHeaderSize = 4 * 4

// shadowRootSlots is how many empty jnode-shaped shadow-root records fit in
// the remainder of block 0 after the header, root j-node, and volume UUID.
const shadowRootSlots = (layout.BlockSize - superblockHeaderSize - layout.InodeSize - 16) / layout.InodeSize

// superblock is the decoded contents of block 0.
type superblock struct {
	magic      uint32
	blockSize  int32
	fsSize     int32
	inodeCount int32
	root       jnode
	volumeID   uuid.UUID
	// shadowRoots are reserved copy-on-write snapshot slots (spec.md §9
	// OQ5); SSFS's Snapshot operation (snapshot.go) claims them one at a
	// time. size == -1 means the slot is unused.
	shadowRoots [shadowRootSlots]jnode
}

func freshSuperblock() superblock {
	sb := superblock{
		magic:      layout.SuperblockMagic,
		blockSize:  layout.BlockSize,
		fsSize:     layout.TotalBlocks,
		inodeCount: layout.MaxInodes,
		root: jnode{
			size:     layout.BlockSize,
			indirect: -1,
		},
		volumeID: uuid.New(),
	}
	for i := range sb.root.direct {
		sb.root.direct[i] = -1
	}
	sb.root.direct[0] = 0
	for i := range sb.shadowRoots {
		sb.shadowRoots[i] = emptyJnode()
	}
	return sb
}

func (sb superblock) encode() []byte {
	b := make([]byte, layout.BlockSize)
	binary.LittleEndian.PutUint32(b[0:4], sb.magic)
	binary.LittleEndian.PutUint32(b[4:8], uint32(sb.blockSize))
	binary.LittleEndian.PutUint32(b[8:12], uint32(sb.fsSize))
	binary.LittleEndian.PutUint32(b[12:16], uint32(sb.inodeCount))
	off := superblockHeaderSize
	copy(b[off:off+layout.InodeSize], sb.root.encode())
	off += layout.InodeSize
	idBytes, _ := sb.volumeID.MarshalBinary()
	copy(b[off:off+16], idBytes)
	off += 16
	for _, sr := range sb.shadowRoots {
		copy(b[off:off+layout.InodeSize], sr.encode())
		off += layout.InodeSize
	}
	return b
}

func decodeSuperblock(b []byte) (superblock, error) {
	if len(b) < layout.BlockSize {
		return superblock{}, fmt.Errorf("ssfs: short superblock buffer (%d bytes)", len(b))
	}
	var sb superblock
	sb.magic = binary.LittleEndian.Uint32(b[0:4])
	if sb.magic != layout.SuperblockMagic {
		return superblock{}, fmt.Errorf("ssfs: bad superblock magic 0x%08X", sb.magic)
	}
	sb.blockSize = int32(binary.LittleEndian.Uint32(b[4:8]))
	sb.fsSize = int32(binary.LittleEndian.Uint32(b[8:12]))
	sb.inodeCount = int32(binary.LittleEndian.Uint32(b[12:16]))
	off := superblockHeaderSize
	root, err := decodeJnode(b[off : off+layout.InodeSize])
	if err != nil {
		return superblock{}, err
	}
	sb.root = root
	off += layout.InodeSize
	if err := sb.volumeID.UnmarshalBinary(b[off : off+16]); err != nil {
		return superblock{}, fmt.Errorf("ssfs: decoding volume id: %w", err)
	}
	off += 16
	for i := range sb.shadowRoots {
		sr, err := decodeJnode(b[off : off+layout.InodeSize])
		if err != nil {
			return superblock{}, err
		}
		sb.shadowRoots[i] = sr
		off += layout.InodeSize
	}
	return sb, nil
}
