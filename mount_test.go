package ssfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssfs/ssfs/internal/layout"
	"github.com/ssfs/ssfs/testhelper"
)

func freshMount(t *testing.T) *Mount {
	t.Helper()
	storage := testhelper.NewMemStorage(Size)
	m, err := Format(storage, true)
	require.NoError(t, err)
	return m
}

func mustInode(t *testing.T, m *Mount, fileID int) int32 {
	t.Helper()
	h, err := m.hdl.Get(fileID)
	require.NoError(t, err)
	return h.InodeNb
}

func TestFormatFreshLayoutInvariants(t *testing.T) {
	m := freshMount(t)

	// invariant 3: inode 0's 4 direct pointers always address the 4
	// directory blocks.
	rootDirInode, err := m.loadInode(layout.RootInodeNb)
	require.NoError(t, err)
	for i := 0; i < layout.DirBlockCount; i++ {
		require.EqualValues(t, layout.DirBlockStart+i, rootDirInode.direct[i])
	}
	require.EqualValues(t, layout.BlockSize*layout.DirBlockCount, rootDirInode.size)

	// invariant 5: root j-node size == 1024 * number of allocated inode blocks.
	require.EqualValues(t, layout.BlockSize, m.sb.root.size)

	// invariant 1: FBM accounting at quiescence (property 2 of spec.md §8):
	// block 0 (inode block) and the 4 directory blocks are allocated.
	require.Equal(t, 5, m.fbm.Count())
	for _, idx := range []int{0, layout.DirBlockStart, layout.DirBlockStart + 1, layout.DirBlockStart + 2, layout.DirBlockStart + 3} {
		set, err := m.fbm.IsSet(idx)
		require.NoError(t, err)
		require.True(t, set, "block %d should be allocated", idx)
	}
}

func TestFormatFreshStampsVolumeID(t *testing.T) {
	m := freshMount(t)
	require.NotEqual(t, [16]byte{}, [16]byte(m.sb.volumeID))
}

// TestScenarioS6 is spec.md §8 S6: unmounting (simulated by discarding the
// in-memory Mount and re-deriving every cache from the same backing
// storage via Format(fresh=false)) must preserve directory and file
// contents exactly.
func TestScenarioS6(t *testing.T) {
	storage := testhelper.NewMemStorage(Size)
	m1, err := Format(storage, true)
	require.NoError(t, err)

	h, err := m1.Open("persist")
	require.NoError(t, err)
	payload := []byte("the contents of this file survive a remount")
	_, err = m1.Write(h, payload)
	require.NoError(t, err)
	require.NoError(t, m1.Close(h))

	m2, err := Format(storage, false)
	require.NoError(t, err)

	h2, err := m2.Open("persist")
	require.NoError(t, err)
	size, err := m2.fileSize(mustInode(t, m2, h2))
	require.NoError(t, err)
	require.EqualValues(t, len(payload), size)

	buf := make([]byte, len(payload))
	n, err := m2.Read(h2, buf)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.Equal(t, payload, buf)

	_, found := m2.dir.lookup("persist")
	require.True(t, found)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	_, err = m.Write(h, []byte("hello"))
	require.NoError(t, err)

	id, err := m.Snapshot()
	require.NoError(t, err)

	direct, err := m.SnapshotRootJNode(id)
	require.NoError(t, err)
	require.Equal(t, m.sb.root.direct, direct)

	_, err = m.SnapshotRootJNode(id + 1000)
	require.Error(t, err)
}
