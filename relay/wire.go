package relay

import (
	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/codec"
	"chaincore.dev/node/tx"
)

// shortIDSize is the wire width of a 48-bit short id: le32(low) || le16(high).
const shortIDSize = 6

// appendShortID writes id's 48-bit wire form.
func appendShortID(dst []byte, id uint64) []byte {
	dst = codec.AppendU32LE(dst, uint32(id))
	dst = codec.AppendU16LE(dst, uint16(id>>32))
	return dst
}

// readShortID inverts appendShortID.
func readShortID(cur *codec.Cursor) (uint64, error) {
	low, err := cur.ReadU32LE()
	if err != nil {
		return 0, err
	}
	high, err := cur.ReadU16LE()
	if err != nil {
		return 0, err
	}
	return uint64(low) | uint64(high)<<32, nil
}

// EncodeIndices encodes an ascending index sequence as a get-block-txn
// index list: CompactSize count, then first index followed by successive
// (delta - 1) CompactSize values.
func EncodeIndices(indices []uint64) []byte {
	out := codec.AppendCompactSize(nil, uint64(len(indices)))
	var prev uint64
	for i, idx := range indices {
		if i == 0 {
			out = codec.AppendCompactSize(out, idx)
		} else {
			out = codec.AppendCompactSize(out, idx-prev-1)
		}
		prev = idx
	}
	return out
}

// DecodeIndices inverts EncodeIndices, rejecting a non-ascending or
// trailing-byte encoding.
func DecodeIndices(b []byte) ([]uint64, error) {
	cur := codec.NewCursor(b)
	n, err := cur.ReadCompactSize()
	if err != nil {
		return nil, errParse("indices: count: %v", err)
	}
	out := make([]uint64, 0, n)
	var prev uint64
	for i := uint64(0); i < n; i++ {
		delta, err := cur.ReadCompactSize()
		if err != nil {
			return nil, errParse("indices: entry %d: %v", i, err)
		}
		var idx uint64
		if i == 0 {
			idx = delta
		} else {
			idx = prev + 1 + delta
			if idx <= prev {
				return nil, errParse("indices: entry %d not ascending", i)
			}
		}
		out = append(out, idx)
		prev = idx
	}
	if cur.Remaining() != 0 {
		return nil, errParse("indices: trailing bytes")
	}
	return out, nil
}

// GetBlockTxnRequest carries the target block hash and the ascending list
// of indices the sender still needs to supply.
type GetBlockTxnRequest struct {
	BlockHash [32]byte
	Indices   []uint64
}

// Encode serializes a request as block_hash(32) || encoded indices.
func (r GetBlockTxnRequest) Encode() []byte {
	out := codec.AppendHash(nil, r.BlockHash)
	return append(out, EncodeIndices(r.Indices)...)
}

// DecodeGetBlockTxnRequest inverts Encode.
func DecodeGetBlockTxnRequest(b []byte) (GetBlockTxnRequest, error) {
	if len(b) < 32 {
		return GetBlockTxnRequest{}, errParse("getblocktxn: short payload")
	}
	cur := codec.NewCursor(b)
	hash, _ := cur.ReadHash()
	indices, err := DecodeIndices(b[32:])
	if err != nil {
		return GetBlockTxnRequest{}, err
	}
	return GetBlockTxnRequest{BlockHash: hash, Indices: indices}, nil
}

// EncodeCompactBlock serializes a compact-block announcement: header(80),
// key_nonce(u64le), the short-id list (CompactSize count, then 6 bytes per
// id in 48-bit wire form), then the prefilled transactions (CompactSize
// count, then each as a CompactSize differential index followed by the
// tx), bit-exact with BIP 152's cmpctblock message.
func EncodeCompactBlock(s *State) []byte {
	out := append([]byte(nil), s.Header.Encode()...)
	out = codec.AppendU64LE(out, s.KeyNonce)

	out = codec.AppendCompactSize(out, uint64(len(s.IDs)))
	for _, id := range s.IDs {
		out = appendShortID(out, id)
	}

	out = codec.AppendCompactSize(out, uint64(len(s.Prefilled)))
	for _, pf := range s.Prefilled {
		out = codec.AppendCompactSize(out, uint64(pf.Index))
		out = append(out, tx.Encode(pf.Tx)...)
	}
	return out
}

// DecodeCompactBlock parses a compact-block announcement previously
// written by EncodeCompactBlock, returning the raw fields NewReceiver
// expects rather than driving setup itself.
func DecodeCompactBlock(b []byte) (header blockindex.Header, keyNonce uint64, ids []uint64, prefilled []PrefilledTx, err error) {
	if len(b) < blockindex.HeaderBytes+8 {
		return blockindex.Header{}, 0, nil, nil, errParse("compactblock: truncated header")
	}
	header, err = blockindex.DecodeHeader(b[:blockindex.HeaderBytes])
	if err != nil {
		return blockindex.Header{}, 0, nil, nil, err
	}
	cur := codec.NewCursor(b[blockindex.HeaderBytes:])
	keyNonce, err = cur.ReadU64LE()
	if err != nil {
		return blockindex.Header{}, 0, nil, nil, errParse("compactblock: key_nonce: %v", err)
	}

	n, err := cur.ReadCompactSize()
	if err != nil {
		return blockindex.Header{}, 0, nil, nil, errParse("compactblock: shortids count: %v", err)
	}
	ids = make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		id, err := readShortID(cur)
		if err != nil {
			return blockindex.Header{}, 0, nil, nil, errParse("compactblock: shortid %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	pn, err := cur.ReadCompactSize()
	if err != nil {
		return blockindex.Header{}, 0, nil, nil, errParse("compactblock: prefilled count: %v", err)
	}
	prefilled = make([]PrefilledTx, 0, pn)
	rest := b[blockindex.HeaderBytes+cur.Pos():]
	off := 0
	for i := uint64(0); i < pn; i++ {
		diffCur := codec.NewCursor(rest[off:])
		diff, err := diffCur.ReadCompactSize()
		if err != nil {
			return blockindex.Header{}, 0, nil, nil, errParse("compactblock: prefilled index %d: %v", i, err)
		}
		off += diffCur.Pos()
		t, used, err := tx.Decode(rest[off:])
		if err != nil {
			return blockindex.Header{}, 0, nil, nil, errParse("compactblock: prefilled tx %d: %v", i, err)
		}
		off += used
		prefilled = append(prefilled, PrefilledTx{Index: int(diff), Tx: t})
	}
	if blockindex.HeaderBytes+cur.Pos()+off != len(b) {
		return blockindex.Header{}, 0, nil, nil, errParse("compactblock: trailing bytes")
	}
	return header, keyNonce, ids, prefilled, nil
}

// BlockTxn is the response to a GetBlockTxnRequest: the requested block's
// hash and the transactions at the indices that were asked for, in
// ascending index order.
type BlockTxn struct {
	BlockHash [32]byte
	Txs       []*tx.Tx
}

// EncodeBlockTxn serializes a response as block_hash(32) || CompactSize
// count || each tx.
func EncodeBlockTxn(r BlockTxn) []byte {
	out := codec.AppendHash(nil, r.BlockHash)
	out = codec.AppendCompactSize(out, uint64(len(r.Txs)))
	for _, t := range r.Txs {
		out = append(out, tx.Encode(t)...)
	}
	return out
}

// DecodeBlockTxn inverts EncodeBlockTxn.
func DecodeBlockTxn(b []byte) (BlockTxn, error) {
	if len(b) < 32 {
		return BlockTxn{}, errParse("blocktxn: short payload")
	}
	cur := codec.NewCursor(b)
	hash, _ := cur.ReadHash()
	n, err := cur.ReadCompactSize()
	if err != nil {
		return BlockTxn{}, errParse("blocktxn: count: %v", err)
	}
	rest := b[cur.Pos():]
	txs := make([]*tx.Tx, 0, n)
	off := 0
	for i := uint64(0); i < n; i++ {
		t, used, err := tx.Decode(rest[off:])
		if err != nil {
			return BlockTxn{}, errParse("blocktxn: tx %d: %v", i, err)
		}
		txs = append(txs, t)
		off += used
	}
	if cur.Pos()+off != len(b) {
		return BlockTxn{}, errParse("blocktxn: trailing bytes")
	}
	return BlockTxn{BlockHash: hash, Txs: txs}, nil
}
