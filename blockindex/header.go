// Package blockindex implements the in-memory block-index node (Entry) and
// the arena that owns a tree of them, linked by prev/next indices rather
// than pointers so that the structure has no reference cycles.
package blockindex

import (
	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/codec"
)

// HeaderBytes is the fixed wire/on-disk size of a block header.
const HeaderBytes = 80

// Header is the 80-byte block header the chain database persists per
// entry. Its own validity (PoW, timestamp rules) is a non-goal here; the
// chain database treats it as an opaque, hashable, serializable record.
type Header struct {
	Version    int32
	PrevBlock  [32]byte
	MerkleRoot [32]byte
	Time       uint32
	Bits       uint32
	Nonce      uint32
}

// Encode serializes h to its canonical 80-byte form.
func (h Header) Encode() []byte {
	out := make([]byte, 0, HeaderBytes)
	out = codec.AppendU32LE(out, uint32(h.Version))
	out = codec.AppendHash(out, h.PrevBlock)
	out = codec.AppendHash(out, h.MerkleRoot)
	out = codec.AppendU32LE(out, h.Time)
	out = codec.AppendU32LE(out, h.Bits)
	out = codec.AppendU32LE(out, h.Nonce)
	return out
}

// DecodeHeader parses a canonical 80-byte header.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderBytes {
		return Header{}, errParse("header: expected %d bytes, got %d", HeaderBytes, len(b))
	}
	cur := codec.NewCursor(b)
	version, _ := cur.ReadU32LE()
	prev, _ := cur.ReadHash()
	merkle, _ := cur.ReadHash()
	tm, _ := cur.ReadU32LE()
	bits, _ := cur.ReadU32LE()
	nonce, _ := cur.ReadU32LE()
	return Header{
		Version:    int32(version),
		PrevBlock:  prev,
		MerkleRoot: merkle,
		Time:       tm,
		Bits:       bits,
		Nonce:      nonce,
	}, nil
}

// Hash is the double-SHA-256 identifier of h, little-endian on the wire.
func (h Header) Hash() [32]byte {
	return bcrypto.Sha256d(h.Encode())
}
