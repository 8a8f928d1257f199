package codec

import "encoding/binary"

// AppendU16LE appends v as a 2-byte little-endian value to dst.
func AppendU16LE(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendU32LE appends v as a 4-byte little-endian value to dst.
func AppendU32LE(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendU64LE appends v as an 8-byte little-endian value to dst.
func AppendU64LE(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendI64LE appends v as an 8-byte little-endian two's-complement value.
func AppendI64LE(dst []byte, v int64) []byte {
	return AppendU64LE(dst, uint64(v))
}

// AppendHash appends a 32-byte hash verbatim (already little-endian on the wire).
func AppendHash(dst []byte, h [32]byte) []byte {
	return append(dst, h[:]...)
}

// AppendVarBytes appends a CompactSize length prefix followed by b.
func AppendVarBytes(dst []byte, b []byte) []byte {
	dst = AppendCompactSize(dst, uint64(len(b)))
	return append(dst, b...)
}
