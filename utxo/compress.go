package utxo

import (
	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/codec"
	"chaincore.dev/node/script"
)

// compressAmount applies the UTXO-set amount compression: trailing decimal
// zeros are folded into an exponent so that round numbers (the overwhelming
// majority of real outputs) compress to a couple of bytes.
func compressAmount(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	e := 0
	for n%10 == 0 && e < 9 {
		n /= 10
		e++
	}
	if e < 9 {
		d := n % 10
		n /= 10
		return 1 + (n*9+d-1)*10 + uint64(e)
	}
	return 1 + (n-1)*10 + 9
}

// decompressAmount inverts compressAmount.
func decompressAmount(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	x--
	e := x % 10
	x /= 10
	var n uint64
	if e < 9 {
		d := (x % 9) + 1
		x /= 9
		n = x*10 + d
	} else {
		n = x + 1
	}
	for ; e > 0; e-- {
		n *= 10
	}
	return n
}

// Special script encodings recognized by compressScript: a one-byte tag
// followed by a fixed-size payload, replacing the general CompactSize-
// length-prefixed raw script for the four standard forms that dominate a
// real UTXO set.
const (
	scriptTagP2PKH             = 0x00
	scriptTagP2SH              = 0x01
	scriptTagP2PKCompressedEven = 0x02
	scriptTagP2PKCompressedOdd  = 0x03
	scriptTagP2PKUncompressedEven = 0x04
	scriptTagP2PKUncompressedOdd  = 0x05
	scriptSpecialCount            = 6
)

// compressScript encodes s as a tagged special form when recognized, else
// as `varint(len(s)+scriptSpecialCount) || s`.
func compressScript(s script.Script) []byte {
	if hash, ok := script.P2PKHHash(s); ok {
		return append([]byte{scriptTagP2PKH}, hash[:]...)
	}
	if hash, ok := script.P2SHHash(s); ok {
		return append([]byte{scriptTagP2SH}, hash[:]...)
	}
	if pub, ok := script.P2PKPubkey(s); ok {
		switch len(pub) {
		case 33:
			if pub[0] == 0x02 || pub[0] == 0x03 {
				out := make([]byte, 33)
				out[0] = pub[0]
				copy(out[1:], pub[1:])
				return out
			}
		case 65:
			if pub[0] == 0x04 {
				out := make([]byte, 33)
				out[0] = scriptTagP2PKUncompressedEven | (pub[64] & 1)
				copy(out[1:], pub[1:33])
				return out
			}
		}
	}
	out := codec.AppendVarInt(nil, uint64(len(s)+scriptSpecialCount))
	return append(out, s...)
}

// decompressScript inverts compressScript, expanding a compressed pubkey
// tag back into its uncompressed form via point decompression.
func decompressScript(c *codec.Cursor) (script.Script, error) {
	tag, err := c.ReadU8()
	if err != nil {
		return nil, errParse("script tag: %v", err)
	}
	switch tag {
	case scriptTagP2PKH:
		h, err := c.ReadBytes(20)
		if err != nil {
			return nil, errParse("p2pkh hash: %v", err)
		}
		var hash [20]byte
		copy(hash[:], h)
		return script.BuildP2PKH(hash), nil
	case scriptTagP2SH:
		h, err := c.ReadBytes(20)
		if err != nil {
			return nil, errParse("p2sh hash: %v", err)
		}
		var hash [20]byte
		copy(hash[:], h)
		return script.BuildP2SH(hash), nil
	case scriptTagP2PKCompressedEven, scriptTagP2PKCompressedOdd:
		x, err := c.ReadBytes(32)
		if err != nil {
			return nil, errParse("p2pk compressed point: %v", err)
		}
		pub := append([]byte{tag}, x...)
		out := script.Script(script.PushData(pub))
		return append(out, script.OP_CHECKSIG), nil
	case scriptTagP2PKUncompressedEven, scriptTagP2PKUncompressedOdd:
		x, err := c.ReadBytes(32)
		if err != nil {
			return nil, errParse("p2pk uncompressed point: %v", err)
		}
		parity := tag & 1
		compressed := append([]byte{0x02 | parity}, x...)
		key, err := bcrypto.ParsePublicKey(compressed)
		if err != nil {
			return nil, errParse("p2pk point decompression: %v", err)
		}
		pub := bcrypto.SerializeUncompressed(key)
		out := script.Script(script.PushData(pub))
		return append(out, script.OP_CHECKSIG), nil
	default:
		c.Advance(-1)
		n, err := c.ReadVarInt()
		if err != nil {
			return nil, errParse("raw script length: %v", err)
		}
		if n < scriptSpecialCount {
			return nil, errParse("raw script length underflows special tag range")
		}
		raw, err := c.ReadBytes(int(n - scriptSpecialCount))
		if err != nil {
			return nil, errParse("raw script bytes: %v", err)
		}
		return script.Script(raw), nil
	}
}
