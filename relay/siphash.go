// Package relay implements BIP152 compact block construction and
// reconstruction: short-id derivation, the receiver-side setup/fill/
// finalize state machine, and the get-block-txn request/response codec.
package relay

import (
	"encoding/binary"

	"chaincore.dev/node/bcrypto"
)

func sipRound(v0, v1, v2, v3 uint64) (uint64, uint64, uint64, uint64) {
	v0 += v1
	v1 = (v1 << 13) | (v1 >> (64 - 13))
	v1 ^= v0
	v0 = (v0 << 32) | (v0 >> (64 - 32))

	v2 += v3
	v3 = (v3 << 16) | (v3 >> (64 - 16))
	v3 ^= v2

	v0 += v3
	v3 = (v3 << 21) | (v3 >> (64 - 21))
	v3 ^= v0

	v2 += v1
	v1 = (v1 << 17) | (v1 >> (64 - 17))
	v1 ^= v2
	v2 = (v2 << 32) | (v2 >> (64 - 32))

	return v0, v1, v2, v3
}

func siphash24(msg []byte, k0, k1 uint64) uint64 {
	v0 := k0 ^ 0x736f6d6570736575
	v1 := k1 ^ 0x646f72616e646f6d
	v2 := k0 ^ 0x6c7967656e657261
	v3 := k1 ^ 0x7465646279746573

	i := 0
	for ; i+8 <= len(msg); i += 8 {
		m := binary.LittleEndian.Uint64(msg[i : i+8])
		v3 ^= m
		v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
		v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
		v0 ^= m
	}

	var b uint64 = uint64(len(msg)) << 56
	rem := msg[i:]
	switch len(rem) {
	case 7:
		b |= uint64(rem[6]) << 48
		fallthrough
	case 6:
		b |= uint64(rem[5]) << 40
		fallthrough
	case 5:
		b |= uint64(rem[4]) << 32
		fallthrough
	case 4:
		b |= uint64(rem[3]) << 24
		fallthrough
	case 3:
		b |= uint64(rem[2]) << 16
		fallthrough
	case 2:
		b |= uint64(rem[1]) << 8
		fallthrough
	case 1:
		b |= uint64(rem[0])
	}

	v3 ^= b
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	v0 ^= b

	v2 ^= 0xff
	for i := 0; i < 4; i++ {
		v0, v1, v2, v3 = sipRound(v0, v1, v2, v3)
	}

	return v0 ^ v1 ^ v2 ^ v3
}

// shortIDMask keeps only the low 48 bits of a siphash output.
const shortIDMask = (uint64(1) << 48) - 1

// deriveSipKeys derives the two 64-bit siphash keys from a block header and
// a random nonce: sipkey = SHA-256(header || le64(nonce)), k0/k1 are its
// first/second little-endian 64-bit halves.
func deriveSipKeys(headerBytes []byte, nonce uint64) (k0, k1 uint64) {
	buf := make([]byte, 0, len(headerBytes)+8)
	buf = append(buf, headerBytes...)
	var nonce8 [8]byte
	binary.LittleEndian.PutUint64(nonce8[:], nonce)
	buf = append(buf, nonce8[:]...)
	digest := bcrypto.Sha256(buf)
	return binary.LittleEndian.Uint64(digest[0:8]), binary.LittleEndian.Uint64(digest[8:16])
}

// ShortID computes the 48-bit short transaction identifier used by compact
// blocks: sid(hash) = siphash-2-4(hash, sipkey) & (2^48 - 1).
func ShortID(k0, k1 uint64, txHash [32]byte) uint64 {
	return siphash24(txHash[:], k0, k1) & shortIDMask
}
