package handles

import "testing"

func TestFreshTableAllClosed(t *testing.T) {
	tbl := New(4)
	if got := tbl.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
	for i := 0; i < 4; i++ {
		h, err := tbl.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if h.Open() {
			t.Fatalf("slot %d is open on a fresh table", i)
		}
	}
	if got := tbl.FirstFree(); got != 0 {
		t.Fatalf("FirstFree() = %d, want 0", got)
	}
}

func TestOpenCloseRoundTrip(t *testing.T) {
	tbl := New(2)
	if err := tbl.Open(0, 7, 1, 2); err != nil {
		t.Fatalf("Open: %v", err)
	}
	h, err := tbl.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if !h.Open() {
		t.Fatal("handle should be open after Open")
	}
	if h.InodeNb != 7 || h.ReadCursor != 1 || h.WriteCursor != 2 {
		t.Fatalf("unexpected handle contents: %+v", h)
	}

	if err := tbl.Close(0); err != nil {
		t.Fatalf("Close: %v", err)
	}
	h, err = tbl.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if h.Open() {
		t.Fatal("handle should be closed after Close")
	}
}

func TestFirstFreeSkipsOpenSlots(t *testing.T) {
	tbl := New(3)
	if err := tbl.Open(0, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Open(1, 2, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := tbl.FirstFree(); got != 2 {
		t.Fatalf("FirstFree() = %d, want 2", got)
	}
}

func TestFirstFreeFullReturnsNegativeOne(t *testing.T) {
	tbl := New(1)
	if err := tbl.Open(0, 1, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := tbl.FirstFree(); got != -1 {
		t.Fatalf("FirstFree() on a full table = %d, want -1", got)
	}
}

func TestFindByInode(t *testing.T) {
	tbl := New(3)
	if err := tbl.Open(1, 42, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := tbl.FindByInode(42); got != 1 {
		t.Fatalf("FindByInode(42) = %d, want 1", got)
	}
	if got := tbl.FindByInode(99); got != -1 {
		t.Fatalf("FindByInode(99) = %d, want -1", got)
	}
}

func TestCloseByInodeClosesAllMatchingHandles(t *testing.T) {
	tbl := New(3)
	if err := tbl.Open(0, 5, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Open(1, 5, 3, 3); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Open(2, 6, 0, 0); err != nil {
		t.Fatal(err)
	}

	tbl.CloseByInode(5)

	h0, _ := tbl.Get(0)
	h1, _ := tbl.Get(1)
	h2, _ := tbl.Get(2)
	if h0.Open() || h1.Open() {
		t.Fatal("both handles on inode 5 should be closed")
	}
	if !h2.Open() {
		t.Fatal("handle on a different inode should be untouched")
	}
}

func TestOutOfRangeIndices(t *testing.T) {
	tbl := New(2)
	if _, err := tbl.Get(-1); err == nil {
		t.Fatal("Get(-1) should error")
	}
	if _, err := tbl.Get(2); err == nil {
		t.Fatal("Get(len) should error")
	}
	if err := tbl.Set(2, Handle{}); err == nil {
		t.Fatal("Set(len) should error")
	}
	if err := tbl.Open(2, 0, 0, 0); err == nil {
		t.Fatal("Open(len) should error")
	}
	if err := tbl.Close(2); err == nil {
		t.Fatal("Close(len) should error")
	}
}

func TestZeroValueHandleIsClosed(t *testing.T) {
	var h Handle
	if h.Open() {
		t.Fatal("zero-value Handle should report closed")
	}
}
