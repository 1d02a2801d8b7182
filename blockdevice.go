package ssfs

import (
	"fmt"

	"github.com/ssfs/ssfs/backend"
	"github.com/ssfs/ssfs/internal/layout"
)

// blockDevice is the concrete "disk adapter" of spec.md §4.1: a fixed-size,
// block-granular view over a backend.Storage. It plays the role of the
// external disk_emu.c in the original implementation, grounded on
// disk/disk.go and backend/file.rawBackend's ReadAt/WriteAt-over-os.File
// pattern, except restricted to whole blocks as the spec requires.
type blockDevice struct {
	storage   backend.Storage
	writable  backend.WritableFile
	blockSize int64
}

func newBlockDevice(storage backend.Storage) (*blockDevice, error) {
	wf, err := storage.Writable()
	if err != nil {
		return nil, fmt.Errorf("ssfs: backing store is not writable: %w", err)
	}
	return &blockDevice{storage: storage, writable: wf, blockSize: layout.BlockSize}, nil
}

// readBlocks reads count blocks starting at start into buf, which must be at
// least count*BlockSize bytes.
func (d *blockDevice) readBlocks(start, count int, buf []byte) error {
	need := count * layout.BlockSize
	if len(buf) < need {
		return fmt.Errorf("ssfs: buffer too small to read %d blocks", count)
	}
	off := int64(start) * d.blockSize
	n, err := d.storage.ReadAt(buf[:need], off)
	if err != nil {
		return fmt.Errorf("ssfs: read_blocks(%d,%d): %w", start, count, err)
	}
	if n != need {
		return fmt.Errorf("ssfs: read_blocks(%d,%d): short read of %d bytes", start, count, n)
	}
	return nil
}

// writeBlocks writes count blocks starting at start from buf.
func (d *blockDevice) writeBlocks(start, count int, buf []byte) error {
	need := count * layout.BlockSize
	if len(buf) < need {
		return fmt.Errorf("ssfs: buffer too small to write %d blocks", count)
	}
	off := int64(start) * d.blockSize
	n, err := d.writable.WriteAt(buf[:need], off)
	if err != nil {
		return fmt.Errorf("ssfs: write_blocks(%d,%d): %w", start, count, err)
	}
	if n != need {
		return fmt.Errorf("ssfs: write_blocks(%d,%d): short write of %d bytes", start, count, n)
	}
	return nil
}

func (d *blockDevice) readBlock(idx int) ([]byte, error) {
	buf := make([]byte, layout.BlockSize)
	if err := d.readBlocks(idx, 1, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *blockDevice) writeBlock(idx int, buf []byte) error {
	return d.writeBlocks(idx, 1, buf)
}
