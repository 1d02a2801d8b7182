package ssfs

import (
	"github.com/ssfs/ssfs/internal/layout"
)

const dirNameBytes = 10
const dirMaxNameLen = dirNameBytes - 1 // last byte always NUL-terminates

// dirEntry is the fixed 14-byte on-disk directory record (spec.md §3): a
// 10-byte NUL-padded name and a 4-byte inode number. name is always written
// fully NUL-padded (spec.md §9 note 7), never left relying on a
// possibly-unterminated 10-byte buffer.
type dirEntry struct {
	name    [dirNameBytes]byte
	inodeNb int32
}

func emptyDirEntry() dirEntry {
	return dirEntry{inodeNb: -1}
}

func reservedDirEntry() dirEntry {
	var e dirEntry
	copy(e.name[:], layout.UnusableName)
	e.inodeNb = layout.UnusableInodeNb
	return e
}

func encodeName(name string) [dirNameBytes]byte {
	var out [dirNameBytes]byte
	if len(name) > dirMaxNameLen {
		name = name[:dirMaxNameLen]
	}
	copy(out[:], name)
	return out
}

// nameString decodes a stored name, stopping at the first NUL so an
// accidentally-unterminated buffer can never read past the fixed array
// (spec.md §9 note 7).
func (e dirEntry) nameString() string {
	if idx := indexByte(e.name[:], 0); idx >= 0 {
		return string(e.name[:idx])
	}
	return string(e.name[:])
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func (e dirEntry) isFree() bool {
	return e.inodeNb == -1 && e.nameString() == ""
}

func (e dirEntry) isReserved() bool {
	return e.inodeNb == layout.UnusableInodeNb && e.nameString() == layout.UnusableName
}

func (e dirEntry) encode() []byte {
	b := make([]byte, layout.DirEntrySize)
	copy(b[0:dirNameBytes], e.name[:])
	putInt32(b[dirNameBytes:dirNameBytes+4], e.inodeNb)
	return b
}

func decodeDirEntry(b []byte) dirEntry {
	var e dirEntry
	copy(e.name[:], b[0:dirNameBytes])
	e.inodeNb = getInt32(b[dirNameBytes : dirNameBytes+4])
	return e
}

// directory is the cached, write-through root directory (spec.md §4.5): a
// flat array of entries backed by the 4 fixed data blocks at
// layout.DirBlockStart..+3.
type directory struct {
	entries []dirEntry
}

func loadDirectory(dev *blockDevice) (*directory, error) {
	d := &directory{entries: make([]dirEntry, 0, layout.DirBlockCount*layout.DirEntriesPerBlock)}
	for blk := 0; blk < layout.DirBlockCount; blk++ {
		raw, err := dev.readBlock(layout.DataStartIdx + layout.DirBlockStart + blk)
		if err != nil {
			return nil, err
		}
		for i := 0; i < layout.DirEntriesPerBlock; i++ {
			off := i * layout.DirEntrySize
			d.entries = append(d.entries, decodeDirEntry(raw[off:off+layout.DirEntrySize]))
		}
	}
	return d, nil
}

// writeEmptyDirectoryBlocks lays down the fresh-format directory: three
// fully-empty blocks, then one block of 7 empty slots followed by
// UNUSABLE sentinels filling the rest (spec.md §4.2).
func writeEmptyDirectoryBlocks(dev *blockDevice) error {
	emptyBlock := make([]byte, 0, layout.BlockSize)
	e := emptyDirEntry()
	for i := 0; i < layout.DirEntriesPerBlock; i++ {
		emptyBlock = append(emptyBlock, e.encode()...)
	}
	emptyBlock = append(emptyBlock, make([]byte, layout.BlockSize-len(emptyBlock))...)

	for i := 0; i < layout.DirBlockCount-1; i++ {
		if err := dev.writeBlock(layout.DataStartIdx+layout.DirBlockStart+i, emptyBlock); err != nil {
			return err
		}
	}

	lastBlock := make([]byte, 0, layout.BlockSize)
	for i := 0; i < 7; i++ {
		lastBlock = append(lastBlock, emptyDirEntry().encode()...)
	}
	for i := 7; i < layout.DirEntriesPerBlock; i++ {
		lastBlock = append(lastBlock, reservedDirEntry().encode()...)
	}
	lastBlock = append(lastBlock, make([]byte, layout.BlockSize-len(lastBlock))...)
	return dev.writeBlock(layout.DataStartIdx+layout.DirBlockStart+layout.DirBlockCount-1, lastBlock)
}

func (d *directory) flush(dev *blockDevice) error {
	for blk := 0; blk < layout.DirBlockCount; blk++ {
		buf := make([]byte, 0, layout.BlockSize)
		start := blk * layout.DirEntriesPerBlock
		for i := 0; i < layout.DirEntriesPerBlock; i++ {
			buf = append(buf, d.entries[start+i].encode()...)
		}
		buf = append(buf, make([]byte, layout.BlockSize-len(buf))...)
		if err := dev.writeBlock(layout.DataStartIdx+layout.DirBlockStart+blk, buf); err != nil {
			return err
		}
	}
	return nil
}

// lookup performs a linear scan of the cached directory (spec.md §4.5). It
// has no side effects — unlike the original implementation, looking up a
// name that doesn't exist never creates anything (spec.md §9 note 2).
func (d *directory) lookup(name string) (int32, bool) {
	name = truncateName(name)
	for _, e := range d.entries {
		if e.isFree() || e.isReserved() {
			continue
		}
		if e.nameString() == name {
			return e.inodeNb, true
		}
	}
	return -1, false
}

// insert finds the first free slot and writes the new entry, flushing the
// directory through to disk (spec.md §4.5).
func (d *directory) insert(dev *blockDevice, name string, inodeNb int32) error {
	name = truncateName(name)
	for i, e := range d.entries {
		if e.isFree() {
			var ne dirEntry
			ne.name = encodeName(name)
			ne.inodeNb = inodeNb
			d.entries[i] = ne
			return d.flush(dev)
		}
	}
	return ErrNoSpace
}

// removeEntry clears the matching entry and flushes (spec.md §4.5).
func (d *directory) removeEntry(dev *blockDevice, name string) error {
	name = truncateName(name)
	for i, e := range d.entries {
		if e.isFree() || e.isReserved() {
			continue
		}
		if e.nameString() == name {
			d.entries[i] = emptyDirEntry()
			return d.flush(dev)
		}
	}
	return ErrNotFound
}

// list returns the (name, inode) pairs of every occupied slot, in
// directory order. Used by Mount.List (spec.md §4.5's lookup generalized to
// "every name" for the cmd/ssfs ls subcommand).
func (d *directory) list() []dirEntry {
	var out []dirEntry
	for _, e := range d.entries {
		if e.isFree() || e.isReserved() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func truncateName(name string) string {
	if len(name) > dirMaxNameLen {
		return name[:dirMaxNameLen]
	}
	return name
}
