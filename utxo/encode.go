package utxo

import (
	"chaincore.dev/node/codec"
	"chaincore.dev/node/tx"
)

// EncodeCoin serializes c the way the chain database's coin bucket stores
// it: VarInt(version), VarInt(height<<1 | coinbase), compressed amount,
// compressed script. A coin is never serialized while Spent — the chain
// database deletes the key instead.
func EncodeCoin(c Coin) []byte {
	out := make([]byte, 0, 16)
	out = codec.AppendVarInt(out, uint64(uint32(c.Version)))
	code := uint64(c.Height) << 1
	if c.Coinbase {
		code |= 1
	}
	out = codec.AppendVarInt(out, code)
	out = codec.AppendVarInt(out, compressAmount(uint64(c.Output.Value)))
	out = append(out, compressScript(c.Output.Script)...)
	return out
}

// DecodeCoin parses a coin previously written by EncodeCoin.
func DecodeCoin(b []byte) (Coin, error) {
	cur := codec.NewCursor(b)
	version, err := cur.ReadVarInt()
	if err != nil {
		return Coin{}, errParse("coin version: %v", err)
	}
	code, err := cur.ReadVarInt()
	if err != nil {
		return Coin{}, errParse("coin code: %v", err)
	}
	amount, err := cur.ReadVarInt()
	if err != nil {
		return Coin{}, errParse("coin amount: %v", err)
	}
	s, err := decompressScript(cur)
	if err != nil {
		return Coin{}, err
	}
	if cur.Remaining() != 0 {
		return Coin{}, errParse("coin: trailing bytes")
	}
	return Coin{
		Version:  int32(uint32(version)),
		Height:   uint32(code >> 1),
		Coinbase: code&1 != 0,
		Output:   tx.Output{Value: int64(decompressAmount(amount)), Script: s},
	}, nil
}

// EncodeOutpointKey is the 36-byte (txid || vout) key a coin or undo record
// is indexed under.
func EncodeOutpointKey(op Outpoint) []byte {
	out := make([]byte, 0, 36)
	out = codec.AppendHash(out, op.Hash)
	out = codec.AppendU32LE(out, op.Index)
	return out
}

// DecodeOutpointKey inverts EncodeOutpointKey.
func DecodeOutpointKey(b []byte) (Outpoint, error) {
	if len(b) != 36 {
		return Outpoint{}, errParse("outpoint key: expected 36 bytes, got %d", len(b))
	}
	cur := codec.NewCursor(b)
	hash, _ := cur.ReadHash()
	index, _ := cur.ReadU32LE()
	return Outpoint{Hash: hash, Index: index}, nil
}
