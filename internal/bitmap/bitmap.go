// Package bitmap implements the SSFS free-block map: one byte per data
// block (0 = free, 1 = allocated), addressed linearly. This is byte, not
// bit, granular — unlike a packed bitmap, a whole FBM block is exactly one
// byte per trackable unit, which is what spec.md's on-disk layout requires
// (block 1025 holds exactly one byte per of the 1024 data blocks). The
// operations mirror github.com/diskfs/go-diskfs's util/bitmap.Bitmap and
// filesystem/ext4's bitmap type (FirstFree/Set/Clear), adapted to byte
// granularity instead of packed bits.
package bitmap

import "fmt"

// Map is an in-memory, write-through-backed free-block map.
type Map struct {
	bits []byte
}

// FromBytes builds a Map from the raw bytes of an on-disk FBM block.
func FromBytes(b []byte) *Map {
	bits := make([]byte, len(b))
	copy(bits, b)
	return &Map{bits: bits}
}

// ToBytes returns a copy of the raw bytes, ready to write back to disk.
func (m *Map) ToBytes() []byte {
	out := make([]byte, len(m.bits))
	copy(out, m.bits)
	return out
}

// IsSet reports whether block i is marked allocated.
func (m *Map) IsSet(i int) (bool, error) {
	if i < 0 || i >= len(m.bits) {
		return false, fmt.Errorf("bitmap: index %d out of range [0,%d)", i, len(m.bits))
	}
	return m.bits[i] != 0, nil
}

// Set marks block i allocated. It reports ErrAlreadyInState-shaped errors to
// the caller via the returned bool, matching spec.md's modify_fbm guard
// against double-allocation.
func (m *Map) Set(i int) (alreadySet bool, err error) {
	if i < 0 || i >= len(m.bits) {
		return false, fmt.Errorf("bitmap: index %d out of range [0,%d)", i, len(m.bits))
	}
	if m.bits[i] != 0 {
		return true, nil
	}
	m.bits[i] = 1
	return false, nil
}

// Clear marks block i free.
func (m *Map) Clear(i int) (alreadyClear bool, err error) {
	if i < 0 || i >= len(m.bits) {
		return false, fmt.Errorf("bitmap: index %d out of range [0,%d)", i, len(m.bits))
	}
	if m.bits[i] == 0 {
		return true, nil
	}
	m.bits[i] = 0
	return false, nil
}

// FirstFree returns the index of the first unallocated block, or -1 if the
// map is full.
func (m *Map) FirstFree() int {
	for i, b := range m.bits {
		if b == 0 {
			return i
		}
	}
	return -1
}

// Count returns the number of allocated (set) blocks.
func (m *Map) Count() int {
	n := 0
	for _, b := range m.bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Len returns the number of blocks the map tracks.
func (m *Map) Len() int {
	return len(m.bits)
}
