// Package bcrypto exposes the narrow set of hashing and signature primitives
// the transaction and block-index layers need. The primitives themselves
// (SHA-256, RIPEMD-160, ECDSA over secp256k1) are treated as pure functions
// with standard contracts; this package only wires them into the shapes the
// consensus code consumes (sha256d, hash160, and a DER signature codec).
package bcrypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for hash160, not a security weakness in this context
)

// Sha256d returns the double-SHA-256 digest of b, used for txid/wtxid,
// merkle nodes, and sighash preimages throughout the wire protocol.
func Sha256d(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Sha256 returns the single SHA-256 digest of b, used to derive the
// siphash key material for compact-block short ids.
func Sha256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// Hash160 returns RIPEMD-160(SHA-256(b)), used to derive P2PKH/P2WPKH
// program hashes and P2SH script hashes.
func Hash160(b []byte) [20]byte {
	sh := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sh[:])
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
