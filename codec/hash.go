package codec

import "encoding/hex"

// Hash is an immutable 32-byte identifier. On the wire it is little-endian;
// by convention it is displayed reversed (Bitcoin's big-endian-looking hex).
type Hash [32]byte

// ZeroHash is the all-zero hash used by null outpoints and the genesis
// previous-block-hash field.
var ZeroHash Hash

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// String renders h in the conventional reversed-byte-order hex display form.
func (h Hash) String() string {
	var rev [32]byte
	for i := range h {
		rev[i] = h[32-1-i]
	}
	return hex.EncodeToString(rev[:])
}

// Bytes returns the wire-order (little-endian) bytes of h.
func (h Hash) Bytes() []byte { return append([]byte(nil), h[:]...) }
