package codec

import (
	"encoding/hex"
	"testing"
)

func TestCompactSizeEncodeDecode(t *testing.T) {
	cases := []struct {
		name string
		val  uint64
		hex  string
	}{
		{"zero", 0, "00"},
		{"max_u8_minimal", 252, "fc"},
		{"u16_boundary", 253, "fdfd00"},
		{"u16_max", 65535, "fdffff"},
		{"u32_boundary", 65536, "fe00000100"},
		{"u32_mid", 0x12345678, "fe78563412"},
		{"u64_boundary", 0x1_0000_0000, "ff0000000001000000"},
		{"u64_high", 0xffff_ffff_ffff_ffff, "ffffffffffffffffff"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := EncodeCompactSize(tc.val)
			if hex.EncodeToString(enc) != tc.hex {
				t.Fatalf("encode mismatch: got %x want %s", enc, tc.hex)
			}
			dec, n, err := DecodeCompactSize(enc)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if n != len(enc) {
				t.Fatalf("decode consumed %d bytes, want %d", n, len(enc))
			}
			if dec != tc.val {
				t.Fatalf("decode value mismatch: got %d want %d", dec, tc.val)
			}
		})
	}
}

func TestCompactSizeRejectsNonMinimal(t *testing.T) {
	cases := [][]byte{
		{0xfd, 0xfc, 0x00}, // 252 encoded as u16
		{0xfe, 0xff, 0xff, 0x00, 0x00}, // 65535 encoded as u32
		{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}, // u32-max encoded as u64
	}
	for _, b := range cases {
		if _, _, err := DecodeCompactSize(b); err == nil {
			t.Fatalf("expected non-minimal rejection for %x", b)
		}
	}
}

func TestCompactSizeTruncated(t *testing.T) {
	if _, _, err := DecodeCompactSize([]byte{0xfd, 0x01}); err == nil {
		t.Fatalf("expected truncation error")
	}
	if _, _, err := DecodeCompactSize(nil); err == nil {
		t.Fatalf("expected truncation error on empty input")
	}
}

func TestCursorReadWrite(t *testing.T) {
	var b []byte
	b = AppendU32LE(b, 0xdeadbeef)
	b = AppendU64LE(b, 0x0102030405060708)
	b = AppendCompactSize(b, 300)
	b = AppendVarBytes(b, []byte("hello"))

	c := NewCursor(b)
	u32, err := c.ReadU32LE()
	if err != nil || u32 != 0xdeadbeef {
		t.Fatalf("u32 roundtrip failed: %v %x", err, u32)
	}
	u64, err := c.ReadU64LE()
	if err != nil || u64 != 0x0102030405060708 {
		t.Fatalf("u64 roundtrip failed: %v %x", err, u64)
	}
	cs, err := c.ReadCompactSize()
	if err != nil || cs != 300 {
		t.Fatalf("compactsize roundtrip failed: %v %d", err, cs)
	}
	n, err := c.ReadCompactSize()
	if err != nil || n != 5 {
		t.Fatalf("var bytes length roundtrip failed: %v %d", err, n)
	}
	data, err := c.ReadBytes(int(n))
	if err != nil || string(data) != "hello" {
		t.Fatalf("var bytes roundtrip failed: %v %q", err, data)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected cursor exhausted, %d bytes remain", c.Remaining())
	}
}

func TestHashDisplayOrderIsReversed(t *testing.T) {
	var h Hash
	h[0] = 0xaa
	h[31] = 0xbb
	s := h.String()
	if s[:2] != "bb" || s[len(s)-2:] != "aa" {
		t.Fatalf("expected reversed display order, got %s", s)
	}
}
