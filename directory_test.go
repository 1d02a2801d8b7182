package ssfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssfs/ssfs/internal/layout"
)

func TestDirEntryNameRoundTrip(t *testing.T) {
	var e dirEntry
	e.name = encodeName("report")
	e.inodeNb = 3
	require.Equal(t, "report", e.nameString())

	raw := e.encode()
	require.Len(t, raw, layout.DirEntrySize)
	decoded := decodeDirEntry(raw)
	require.Equal(t, "report", decoded.nameString())
	require.EqualValues(t, 3, decoded.inodeNb)
}

func TestEncodeNameTruncatesToNineBytes(t *testing.T) {
	// spec.md §3: a 10-byte field, one byte always reserved as a
	// terminator, so the usable name length is 9.
	enc := encodeName("waytoolongname")
	require.Equal(t, "waytoolon", dirEntry{name: enc}.nameString())
}

func TestNameStringNeverReadsPastNUL(t *testing.T) {
	// spec.md §9 note 7: an unterminated 10-byte buffer must not leak
	// trailing garbage into the decoded name.
	var raw [dirNameBytes]byte
	copy(raw[:], "ab")
	raw[2] = 0
	for i := 3; i < dirNameBytes; i++ {
		raw[i] = 'Z'
	}
	e := dirEntry{name: raw}
	require.Equal(t, "ab", e.nameString())
}

func TestFreeAndReservedEntriesAreDistinct(t *testing.T) {
	require.True(t, emptyDirEntry().isFree())
	require.False(t, emptyDirEntry().isReserved())
	require.True(t, reservedDirEntry().isReserved())
	require.False(t, reservedDirEntry().isFree())
}

func TestDirectoryLookupInsertRemove(t *testing.T) {
	m := freshMount(t)

	_, found := m.dir.lookup("missing")
	require.False(t, found)

	require.NoError(t, m.dir.insert(m.dev, "report", 7))
	inodeNb, found := m.dir.lookup("report")
	require.True(t, found)
	require.EqualValues(t, 7, inodeNb)

	require.NoError(t, m.dir.removeEntry(m.dev, "report"))
	_, found = m.dir.lookup("report")
	require.False(t, found)
}

func TestDirectoryLookupIsPure(t *testing.T) {
	// spec.md §9 note 2: a missed lookup must never mutate the directory.
	m := freshMount(t)
	before := make([]dirEntry, len(m.dir.entries))
	copy(before, m.dir.entries)

	_, found := m.dir.lookup("ghost")
	require.False(t, found)
	require.Equal(t, before, m.dir.entries)
}

func TestDirectoryRemoveUnknownNameFails(t *testing.T) {
	m := freshMount(t)
	err := m.dir.removeEntry(m.dev, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectorySkipsReservedSlotsOnLookup(t *testing.T) {
	m := freshMount(t)
	_, found := m.dir.lookup(layout.UnusableName)
	require.False(t, found, "the UNUSABLE sentinel name must never resolve as a real file")
}

func TestMountListReflectsOpenFiles(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("report")
	require.NoError(t, err)
	_, err = m.Write(h, []byte("12345"))
	require.NoError(t, err)

	entries, err := m.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "report", entries[0].Name)
	require.EqualValues(t, 5, entries[0].Size)

	require.NoError(t, m.Close(h))
	require.NoError(t, m.Remove("report"))
	entries, err = m.List()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFreshDirectoryHasExactCapacity(t *testing.T) {
	// spec.md §4.2's fresh layout has more physical directory slots than
	// the inode table supports: 3 fully-empty blocks, then one block with
	// 7 empty slots followed by UNUSABLE padding for the remainder.
	m := freshMount(t)
	require.Len(t, m.dir.entries, layout.DirBlockCount*layout.DirEntriesPerBlock)

	free, reserved := 0, 0
	for _, e := range m.dir.entries {
		switch {
		case e.isReserved():
			reserved++
		case e.isFree():
			free++
		}
	}
	wantReserved := layout.DirEntriesPerBlock - 7
	wantFree := layout.DirBlockCount*layout.DirEntriesPerBlock - wantReserved
	require.Equal(t, wantReserved, reserved)
	require.Equal(t, wantFree, free)
	require.GreaterOrEqual(t, wantFree, layout.MaxUserFiles, "directory capacity must not be the limiting factor before the inode table")
}
