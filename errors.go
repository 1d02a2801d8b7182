package ssfs

import "errors"

// Error kinds from the SSFS error taxonomy. Callers can use errors.Is against
// these sentinels; the library also wraps them with call-specific context via
// fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidArgument covers an out-of-range fileID or a negative offset.
	ErrInvalidArgument = errors.New("ssfs: invalid argument")
	// ErrNotOpen means the handle slot referenced is not currently occupied.
	ErrNotOpen = errors.New("ssfs: file not open")
	// ErrNotFound means a directory lookup did not find the requested name.
	ErrNotFound = errors.New("ssfs: file not found")
	// ErrNoSpace means the FBM, inode region, directory, or handle table is full.
	ErrNoSpace = errors.New("ssfs: no space left")
	// ErrAlreadyInState means a bitmap bit already held the value being requested.
	ErrAlreadyInState = errors.New("ssfs: block already in requested state")
	// ErrOutOfRange means a seek target exceeds the file's current size, or
	// the read path reached a block the file does not have.
	ErrOutOfRange = errors.New("ssfs: seek target out of range")

	// errFullInode is internal: all 14 direct slots of an inode are
	// occupied and the caller must extend via the indirect chain first.
	errFullInode = errors.New("ssfs: inode has no free direct slots")
)
