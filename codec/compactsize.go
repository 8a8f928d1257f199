package codec

// AppendCompactSize encodes n as a Bitcoin-style CompactSize varint and
// appends it to dst.
func AppendCompactSize(dst []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(dst, byte(n))
	case n <= 0xffff:
		dst = append(dst, 0xfd)
		return AppendU16LE(dst, uint16(n))
	case n <= 0xffff_ffff:
		dst = append(dst, 0xfe)
		return AppendU32LE(dst, uint32(n))
	default:
		dst = append(dst, 0xff)
		return AppendU64LE(dst, n)
	}
}

// EncodeCompactSize encodes n as a standalone CompactSize byte slice.
func EncodeCompactSize(n uint64) []byte {
	return AppendCompactSize(nil, n)
}

// DecodeCompactSize decodes one CompactSize value from the front of buf,
// returning the value and the number of bytes consumed. Non-minimal
// encodings are rejected.
func DecodeCompactSize(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, errTruncated("compactsize")
	}
	tag := buf[0]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(buf) < 3 {
			return 0, 0, errTruncated("compactsize")
		}
		v := uint64(buf[1]) | uint64(buf[2])<<8
		if v < 0xfd {
			return 0, 0, errNonMinimal("compactsize")
		}
		return v, 3, nil
	case tag == 0xfe:
		if len(buf) < 5 {
			return 0, 0, errTruncated("compactsize")
		}
		v := uint64(buf[1]) | uint64(buf[2])<<8 | uint64(buf[3])<<16 | uint64(buf[4])<<24
		if v <= 0xffff {
			return 0, 0, errNonMinimal("compactsize")
		}
		return v, 5, nil
	default: // 0xff
		if len(buf) < 9 {
			return 0, 0, errTruncated("compactsize")
		}
		var v uint64
		for i := 0; i < 8; i++ {
			v |= uint64(buf[1+i]) << (8 * i)
		}
		if v <= 0xffff_ffff {
			return 0, 0, errNonMinimal("compactsize")
		}
		return v, 9, nil
	}
}
