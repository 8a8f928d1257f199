package codec

import "encoding/binary"

// Cursor reads little-endian primitives off a byte slice, tracking position
// and refusing to read past the end.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor creates a cursor over b starting at offset 0.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.b) {
		return 0
	}
	return len(c.b) - c.pos
}

func (c *Cursor) readExact(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errTruncated("cursor")
	}
	start := c.pos
	c.pos += n
	return c.b[start:c.pos], nil
}

// PeekBytes returns up to n bytes starting at the current position without
// advancing it. It returns fewer than n bytes if the buffer is shorter.
func (c *Cursor) PeekBytes(n int) []byte {
	end := c.pos + n
	if end > len(c.b) {
		end = len(c.b)
	}
	if c.pos > end {
		return nil
	}
	return c.b[c.pos:end]
}

// Advance moves the cursor forward by n bytes without reading them.
func (c *Cursor) Advance(n int) { c.pos += n }

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.readExact(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// ReadHash reads a fixed 32-byte hash.
func (c *Cursor) ReadHash() ([32]byte, error) {
	var out [32]byte
	b, err := c.readExact(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ReadCompactSize reads a CompactSize varint.
func (c *Cursor) ReadCompactSize() (uint64, error) {
	v, n, err := DecodeCompactSize(c.b[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n
	return v, nil
}
