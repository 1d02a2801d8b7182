// Package layout holds the fixed geometry of an SSFS volume: block size,
// block counts, and the region boundaries carved out of the backing store.
// Every other package imports these instead of re-deriving them.
package layout

const (
	// BlockSize is the fixed unit of disk I/O, in bytes.
	BlockSize = 1024

	// TotalBlocks is the whole-device size, in blocks.
	TotalBlocks = 1027

	// DataBlocks is the number of blocks in the data region.
	DataBlocks = 1024

	// SuperblockIdx is the block holding the superblock and root j-node.
	SuperblockIdx = 0

	// DataStartIdx is the first block of the data region; data block i on
	// disk lives at DataStartIdx+i.
	DataStartIdx = 1

	// FBMIdx is the block holding the free-block bitmap.
	FBMIdx = 1025

	// WriteMaskIdx is the reserved, currently-unused write-mask block.
	WriteMaskIdx = 1026

	// MaxInodes is the total inode count, including the reserved root
	// directory inode at index 0.
	MaxInodes = 200

	// MaxUserFiles is the number of inodes available to user files
	// (MaxInodes minus the reserved directory inode).
	MaxUserFiles = 199

	// DirectPointers is the number of direct block pointers in an inode or
	// the root j-node.
	DirectPointers = 14

	// InodeSize is the on-disk size of one inode record, in bytes:
	// one int32 size + 14 int32 direct pointers + one int32 indirect pointer.
	InodeSize = 4 + DirectPointers*4 + 4

	// InodesPerBlock is the number of inodes packed into one data block.
	InodesPerBlock = BlockSize / InodeSize

	// DirEntrySize is the on-disk size of one directory entry: a 10-byte
	// NUL-padded name plus a 4-byte inode number.
	DirEntrySize = 10 + 4

	// DirEntriesPerBlock is the number of directory entries packed into one
	// data block.
	DirEntriesPerBlock = BlockSize / DirEntrySize

	// DirBlockCount is the number of data blocks making up the root
	// directory.
	DirBlockCount = 4

	// DirBlockStart is the index, within the data region, of the first root
	// directory block; the directory occupies DirBlockStart..DirBlockStart+3.
	DirBlockStart = DataBlocks - DirBlockCount

	// RootInodeNb is the reserved inode number of the root directory.
	RootInodeNb = 0

	// SuperblockMagic identifies a valid SSFS superblock.
	SuperblockMagic = 0xACBD0005

	// UnusableName is the sentinel name written into every slot of the last
	// directory block after its first 7, permanently reserving those physical
	// slots. The slots left free (226) still outnumber MaxUserFiles.
	UnusableName = "UNUSABLE"

	// UnusableInodeNb is the sentinel inode number paired with UnusableName.
	UnusableInodeNb = 100000
)
