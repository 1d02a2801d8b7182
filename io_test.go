package ssfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssfs/ssfs/internal/layout"
)

// TestSeekBound is spec.md §8 property 5.
func TestSeekBound(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	_, err = m.Write(h, []byte("hello"))
	require.NoError(t, err)

	require.NoError(t, m.SeekRead(h, 0))
	require.NoError(t, m.SeekRead(h, 5))
	err = m.SeekRead(h, 6)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSeekRejectsNegativeOffset(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	err = m.SeekWrite(h, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReadClampsPastEndOfFile(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	_, err = m.Write(h, []byte("hi"))
	require.NoError(t, err)
	require.NoError(t, m.SeekRead(h, 0))

	buf := make([]byte, 10)
	n, err := m.Read(h, buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "hi", string(buf[:n]))
}

// TestCursorIndependence checks that the read and write cursors move
// independently: re-opening a closed file starts the write cursor at EOF,
// writing advances only the write cursor, and opening a file that is still
// open returns that same handle with its cursors as they are.
func TestCursorIndependence(t *testing.T) {
	m := freshMount(t)
	h1, err := m.Open("a")
	require.NoError(t, err)
	_, err = m.Write(h1, []byte("12345"))
	require.NoError(t, err)
	require.NoError(t, m.Close(h1))

	h2, err := m.Open("a")
	require.NoError(t, err)
	h2Handle, err := m.hdl.Get(h2)
	require.NoError(t, err)
	require.EqualValues(t, 5, h2Handle.WriteCursor)

	_, err = m.Write(h2, []byte("67890"))
	require.NoError(t, err)

	h3, err := m.Open("a")
	require.NoError(t, err)
	require.Equal(t, h2, h3)
	h3Handle, err := m.hdl.Get(h3)
	require.NoError(t, err)
	require.EqualValues(t, 10, h3Handle.WriteCursor)
	require.EqualValues(t, 0, h3Handle.ReadCursor)
}

// TestScenarioS1 is spec.md §8 S1.
func TestScenarioS1(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	_, err = m.Write(h, []byte("hello"))
	require.NoError(t, err)
	require.NoError(t, m.SeekRead(h, 0))
	buf := make([]byte, 5)
	_, err = m.Read(h, buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

// TestScenarioS2 is spec.md §8 S2: writing across a block boundary.
func TestScenarioS2(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("big")
	require.NoError(t, err)

	a := make([]byte, layout.BlockSize)
	for i := range a {
		a[i] = 'A'
	}
	b := make([]byte, layout.BlockSize)
	for i := range b {
		b[i] = 'B'
	}
	_, err = m.Write(h, a)
	require.NoError(t, err)
	_, err = m.Write(h, b)
	require.NoError(t, err)

	require.NoError(t, m.SeekRead(h, 0))
	buf := make([]byte, 2*layout.BlockSize)
	n, err := m.Read(h, buf)
	require.NoError(t, err)
	require.Equal(t, 2*layout.BlockSize, n)
	for i := 0; i < layout.BlockSize; i++ {
		require.Equal(t, byte('A'), buf[i])
	}
	for i := layout.BlockSize; i < 2*layout.BlockSize; i++ {
		require.Equal(t, byte('B'), buf[i])
	}
}

// TestScenarioS3 is spec.md §8 S3: a write spanning the indirect-inode
// boundary (14*1024 + 10 bytes).
func TestScenarioS3(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("huge")
	require.NoError(t, err)

	total := 14*layout.BlockSize + 10
	data := make([]byte, total)
	for i := range data {
		data[i] = byte(i % 251)
	}
	n, err := m.Write(h, data)
	require.NoError(t, err)
	require.Equal(t, total, n)

	inodeNb := mustInode(t, m, h)
	size, err := m.fileSize(inodeNb)
	require.NoError(t, err)
	require.EqualValues(t, total, size)

	require.NoError(t, m.SeekRead(h, 0))
	buf := make([]byte, total)
	n, err = m.Read(h, buf)
	require.NoError(t, err)
	require.Equal(t, total, n)
	require.Equal(t, data[total-1], buf[total-1])

	n0, err := m.loadInode(inodeNb)
	require.NoError(t, err)
	require.NotEqual(t, int32(-1), n0.indirect)
}

func TestWriteThenReadEmptyBufferIsNoop(t *testing.T) {
	m := freshMount(t)
	h, err := m.Open("a")
	require.NoError(t, err)
	n, err := m.Write(h, nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
	n, err = m.Read(h, nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestGrowInodeSizeTracksLocalOffsetNotGlobalCursor(t *testing.T) {
	// spec.md §3: an inode's size counts only its own 14-block span. A
	// write that lands in a continuation inode must grow that inode's
	// size by the local offset within it, not the file's total length.
	m := freshMount(t)
	h, err := m.Open("huge")
	require.NoError(t, err)
	data := make([]byte, 14*layout.BlockSize+50)
	_, err = m.Write(h, data)
	require.NoError(t, err)

	head := mustInode(t, m, h)
	n, err := m.loadInode(head)
	require.NoError(t, err)
	require.EqualValues(t, 14*layout.BlockSize, n.size)

	cont, err := m.loadInode(n.indirect)
	require.NoError(t, err)
	require.EqualValues(t, 50, cont.size)
}
