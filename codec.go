package ssfs

import "encoding/binary"

// putInt32 and getInt32 centralize the little-endian int32 encoding used
// throughout the on-disk format (spec.md §6: "all integer fields are native
// -endian 32-bit signed; implementations MUST document and preferably fix
// endianness" — SSFS fixes little-endian).
func putInt32(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}

func getInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}
