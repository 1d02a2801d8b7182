// Package handles implements the SSFS open-file handle table: a fixed array
// of (inode, read cursor, write cursor) slots with independent lifetimes,
// mirroring spec.md §4.6. Modeled as an explicit option type rather than the
// original's inode_nb==-1 sentinel (spec.md §9 re-architecture note 1).
package handles

import "fmt"

// Handle is one open-file slot. A zero-value Handle is closed.
type Handle struct {
	open        bool
	InodeNb     int32
	ReadCursor  int64
	WriteCursor int64
}

// Open reports whether the slot currently refers to a file.
func (h Handle) Open() bool { return h.open }

// Table is the fixed-capacity handle table.
type Table struct {
	slots []Handle
}

// New creates a handle table with the given capacity, all slots closed.
func New(capacity int) *Table {
	return &Table{slots: make([]Handle, capacity)}
}

// Len returns the table's capacity.
func (t *Table) Len() int { return len(t.slots) }

// Get returns the handle at index i.
func (t *Table) Get(i int) (Handle, error) {
	if i < 0 || i >= len(t.slots) {
		return Handle{}, fmt.Errorf("handles: index %d out of range [0,%d)", i, len(t.slots))
	}
	return t.slots[i], nil
}

// Set overwrites the handle at index i.
func (t *Table) Set(i int, h Handle) error {
	if i < 0 || i >= len(t.slots) {
		return fmt.Errorf("handles: index %d out of range [0,%d)", i, len(t.slots))
	}
	t.slots[i] = h
	return nil
}

// FirstFree returns the index of the first closed slot, or -1 if the table
// is full.
func (t *Table) FirstFree() int {
	for i, h := range t.slots {
		if !h.open {
			return i
		}
	}
	return -1
}

// FindByInode returns the index of an open handle referring to inodeNb, or
// -1 if none is open.
func (t *Table) FindByInode(inodeNb int32) int {
	for i, h := range t.slots {
		if h.open && h.InodeNb == inodeNb {
			return i
		}
	}
	return -1
}

// Open claims slot i for inodeNb with the given cursors.
func (t *Table) Open(i int, inodeNb int32, readCursor, writeCursor int64) error {
	if i < 0 || i >= len(t.slots) {
		return fmt.Errorf("handles: index %d out of range [0,%d)", i, len(t.slots))
	}
	t.slots[i] = Handle{open: true, InodeNb: inodeNb, ReadCursor: readCursor, WriteCursor: writeCursor}
	return nil
}

// Close clears slot i.
func (t *Table) Close(i int) error {
	if i < 0 || i >= len(t.slots) {
		return fmt.Errorf("handles: index %d out of range [0,%d)", i, len(t.slots))
	}
	t.slots[i] = Handle{}
	return nil
}

// CloseByInode closes every open handle referring to inodeNb. Used by
// Remove to invalidate handles left open on a deleted file.
func (t *Table) CloseByInode(inodeNb int32) {
	for i, h := range t.slots {
		if h.open && h.InodeNb == inodeNb {
			t.slots[i] = Handle{}
		}
	}
}
