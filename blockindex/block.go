package blockindex

import (
	"chaincore.dev/node/codec"
	"chaincore.dev/node/tx"
)

// Block pairs a header with its transaction list, the full record the
// chain database appends to a flat file and the compact-block machinery
// reconstructs. Header validity (PoW, timestamp) is a non-goal here.
type Block struct {
	Header       Header
	Transactions []*tx.Tx
}

// Encode serializes b as header || CompactSize(tx count) || each tx.
func (b Block) Encode() []byte {
	out := append([]byte(nil), b.Header.Encode()...)
	out = codec.AppendCompactSize(out, uint64(len(b.Transactions)))
	for _, t := range b.Transactions {
		out = append(out, tx.Encode(t)...)
	}
	return out
}

// DecodeBlock parses a block previously written by Encode.
func DecodeBlock(raw []byte) (Block, error) {
	if len(raw) < HeaderBytes {
		return Block{}, errParse("block: truncated header")
	}
	header, err := DecodeHeader(raw[:HeaderBytes])
	if err != nil {
		return Block{}, err
	}
	cur := codec.NewCursor(raw[HeaderBytes:])
	n, err := cur.ReadCompactSize()
	if err != nil {
		return Block{}, errParse("block: tx count: %v", err)
	}
	rest := raw[HeaderBytes+cur.Pos():]
	txs := make([]*tx.Tx, 0, n)
	off := 0
	for i := uint64(0); i < n; i++ {
		t, used, err := tx.Decode(rest[off:])
		if err != nil {
			return Block{}, errParse("block: tx %d: %v", i, err)
		}
		txs = append(txs, t)
		off += used
	}
	if HeaderBytes+cur.Pos()+off != len(raw) {
		return Block{}, errParse("block: trailing bytes")
	}
	return Block{Header: header, Transactions: txs}, nil
}
