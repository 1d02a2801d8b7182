package ssfs

import (
	"testing"

	"github.com/ssfs/ssfs/internal/layout"
	"github.com/ssfs/ssfs/util"
)

func TestJnodeEncodeDecodeRoundTrip(t *testing.T) {
	n := jnode{size: 42, indirect: 7}
	for i := range n.direct {
		n.direct[i] = int32(i) * 3
	}
	b := n.encode()
	if len(b) != layout.InodeSize {
		t.Fatalf("encode() length = %d, want %d", len(b), layout.InodeSize)
	}
	got, err := decodeJnode(b)
	if err != nil {
		t.Fatalf("decodeJnode: %v", err)
	}
	if diff, diffString := util.DumpByteSlicesWithDiffs(got.encode(), b, 16, false, true, true); diff {
		t.Errorf("decodeJnode(encode(n)) did not round-trip\n%s", diffString)
	}
}

func TestSuperblockEncodeDecodeRoundTrip(t *testing.T) {
	sb := freshSuperblock()
	sb.root.direct[3] = 9
	sb.shadowRoots[0] = jnode{size: 11, indirect: -1, direct: sb.root.direct}

	b := sb.encode()
	if len(b) != layout.BlockSize {
		t.Fatalf("encode() length = %d, want %d", len(b), layout.BlockSize)
	}
	got, err := decodeSuperblock(b)
	if err != nil {
		t.Fatalf("decodeSuperblock: %v", err)
	}
	if diff, diffString := util.DumpByteSlicesWithDiffs(got.encode(), b, 32, false, true, true); diff {
		t.Errorf("decodeSuperblock(encode(sb)) did not round-trip\n%s", diffString)
	}
	if got.volumeID != sb.volumeID {
		t.Errorf("volumeID changed across round-trip: got %s, want %s", got.volumeID, sb.volumeID)
	}
}

func TestDecodeSuperblockRejectsBadMagic(t *testing.T) {
	sb := freshSuperblock()
	b := sb.encode()
	b[0] ^= 0xFF
	if _, err := decodeSuperblock(b); err == nil {
		t.Fatal("decodeSuperblock should reject a corrupted magic number")
	}
}
