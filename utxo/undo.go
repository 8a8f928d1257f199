package utxo

import "chaincore.dev/node/codec"

// Record is the undo log written alongside a connected block: the ordered
// list of coins it consumed, enough to reconstruct them when the block is
// later disconnected.
type Record struct {
	Spent []UndoSpent
}

// EncodeRecord serializes r as: count u32le, then for each spent entry
// outpoint_key(36) || coin_len u32le || coin_bytes.
func EncodeRecord(r Record) []byte {
	out := make([]byte, 0, 4+len(r.Spent)*(36+4+40))
	out = codec.AppendU32LE(out, uint32(len(r.Spent)))
	for _, s := range r.Spent {
		out = append(out, EncodeOutpointKey(s.Outpoint)...)
		coinBytes := EncodeCoin(s.Coin)
		out = codec.AppendU32LE(out, uint32(len(coinBytes)))
		out = append(out, coinBytes...)
	}
	return out
}

// DecodeRecord inverts EncodeRecord.
func DecodeRecord(b []byte) (Record, error) {
	cur := codec.NewCursor(b)
	n, err := cur.ReadU32LE()
	if err != nil {
		return Record{}, errParse("undo record count: %v", err)
	}
	spent := make([]UndoSpent, 0, n)
	for i := uint32(0); i < n; i++ {
		keyBytes, err := cur.ReadBytes(36)
		if err != nil {
			return Record{}, errParse("undo outpoint: %v", err)
		}
		op, err := DecodeOutpointKey(keyBytes)
		if err != nil {
			return Record{}, err
		}
		coinLen, err := cur.ReadU32LE()
		if err != nil {
			return Record{}, errParse("undo coin length: %v", err)
		}
		coinBytes, err := cur.ReadBytes(int(coinLen))
		if err != nil {
			return Record{}, errParse("undo coin bytes: %v", err)
		}
		coin, err := DecodeCoin(coinBytes)
		if err != nil {
			return Record{}, err
		}
		spent = append(spent, UndoSpent{Outpoint: op, Coin: coin})
	}
	if cur.Remaining() != 0 {
		return Record{}, errParse("undo record: trailing bytes")
	}
	return Record{Spent: spent}, nil
}
