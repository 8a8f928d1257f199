package bcrypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// PrivateKey is a secp256k1 signing key.
type PrivateKey = btcec.PrivateKey

// PublicKey is a secp256k1 point used to verify signatures and derive
// pubkey-hash programs.
type PublicKey = btcec.PublicKey

// ParsePrivateKey parses a 32-byte scalar into a secp256k1 private key.
func ParsePrivateKey(b []byte) *PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv
}

// ParsePublicKey parses a compressed (33-byte) or uncompressed (65-byte)
// SEC1 public key.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	return btcec.ParsePubKey(b)
}

// SerializeCompressed returns the 33-byte compressed encoding of pub.
func SerializeCompressed(pub *PublicKey) []byte {
	return pub.SerializeCompressed()
}

// SerializeUncompressed returns the 65-byte uncompressed encoding of pub.
func SerializeUncompressed(pub *PublicKey) []byte {
	return pub.SerializeUncompressed()
}

// SignDER produces a deterministic (RFC 6979) ECDSA signature over digest
// and returns its low-S, strict-DER encoding.
func SignDER(priv *PrivateKey, digest [32]byte) []byte {
	sig := ecdsa.Sign(priv, digest[:])
	return sig.Serialize()
}

// VerifyDER checks a strict-DER ECDSA signature over digest against pub.
func VerifyDER(pub *PublicKey, digest [32]byte, sigDER []byte) bool {
	sig, err := ecdsa.ParseDERSignature(sigDER)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pub)
}
