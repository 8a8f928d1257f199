package relay

import (
	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/tx"
)

// MaxBlockSize bounds the anti-hash-DoS checks during receiver setup. It
// matches the legacy base-size limit transactions are already checked
// against (tx.MaxBlockBaseSize).
const MaxBlockSize = tx.MaxBlockBaseSize

// PrefilledTx is a transaction placed directly in a compact block rather
// than referenced by short id, carrying its differential position.
type PrefilledTx struct {
	Index int
	Tx    *tx.Tx
}

// State is the reconstruction state for one compact block, shared by both
// the sender (which only ever populates Prefilled/IDs) and the receiver
// (which additionally drives avail/id_map/count through Fill*/Finalize).
type State struct {
	Header   blockindex.Header
	KeyNonce uint64
	k0, k1   uint64

	IDs       []uint64
	Prefilled []PrefilledTx

	avail []*tx.Tx
	idMap map[uint64]int
	count int
	total int
}

func txHash(t *tx.Tx) [32]byte {
	return tx.WTxID(t)
}

// SetBlock builds the sender-side compact representation of a block: every
// non-coinbase transaction's short id, and the coinbase as the sole
// prefilled entry at index 0.
func SetBlock(header blockindex.Header, keyNonce uint64, txs []*tx.Tx) *State {
	k0, k1 := deriveSipKeys(header.Encode(), keyNonce)
	s := &State{
		Header:   header,
		KeyNonce: keyNonce,
		k0:       k0,
		k1:       k1,
	}
	if len(txs) == 0 {
		return s
	}
	s.Prefilled = []PrefilledTx{{Index: 0, Tx: txs[0]}}
	s.IDs = make([]uint64, 0, len(txs)-1)
	for _, t := range txs[1:] {
		s.IDs = append(s.IDs, ShortID(k0, k1, txHash(t)))
	}
	return s
}

// NewReceiver sets up receiver-side reconstruction state from a decoded
// compact block announcement. It rejects anti-hash-DoS-violating sizes and
// malformed prefilled-index sequences, and reports ErrCollision when two
// short ids collide (the caller must then request the full block).
func NewReceiver(header blockindex.Header, keyNonce uint64, ids []uint64, prefilled []PrefilledTx) (*State, error) {
	total := len(prefilled) + len(ids)
	if total == 0 {
		return nil, errParse("setup: total == 0")
	}
	if total > MaxBlockSize/10 {
		return nil, errParse("setup: total exceeds MAX_BLOCK_SIZE/10")
	}
	if total > (MaxBlockSize-81)/60 {
		return nil, errParse("setup: total exceeds (MAX_BLOCK_SIZE-81)/60")
	}

	k0, k1 := deriveSipKeys(header.Encode(), keyNonce)
	s := &State{
		Header:   header,
		KeyNonce: keyNonce,
		k0:       k0,
		k1:       k1,
		IDs:      ids,
		total:    total,
		avail:    make([]*tx.Tx, total),
		idMap:    make(map[uint64]int, len(ids)),
	}

	last := -1
	for i, pf := range prefilled {
		last += pf.Index + 1
		if last < 0 || last > 0xFFFF || last > len(ids)+i {
			return nil, errParse("setup: prefilled index out of range")
		}
		s.avail[last] = pf.Tx
		s.count++
	}

	offset := 0
	for i, id := range ids {
		for i+offset < total && s.avail[i+offset] != nil {
			offset++
		}
		idx := i + offset
		if idx >= total {
			return nil, errParse("setup: short-id index out of range")
		}
		if _, collide := s.idMap[id]; collide {
			return nil, ErrCollision
		}
		s.idMap[id] = idx
	}
	return s, nil
}

// Place fills in the transaction matching short id from the caller's
// mempool scan. It reports whether id was outstanding; a false return
// means the candidate tx is not part of this block (or was already
// placed) and the caller should move on.
func (s *State) Place(id uint64, t *tx.Tx) bool {
	idx, ok := s.idMap[id]
	if !ok {
		return false
	}
	delete(s.idMap, id)
	s.avail[idx] = t
	s.count++
	return true
}

// MissingIndices lists, in ascending order, the avail slots still empty —
// the indices a get-block-txn request must carry.
func (s *State) MissingIndices() []uint64 {
	var out []uint64
	for i, t := range s.avail {
		if t == nil {
			out = append(out, uint64(i))
		}
	}
	return out
}

// FillMissing consumes a BlockTxn response in avail order: every empty
// slot takes the next response transaction. It fails if the response runs
// out early, and fails if any response transaction goes unused.
func (s *State) FillMissing(resp []*tx.Tx) error {
	ri := 0
	for i := range s.avail {
		if s.avail[i] != nil {
			continue
		}
		if ri >= len(resp) {
			return errParse("fill_missing: response exhausted before all slots filled")
		}
		s.avail[i] = resp[ri]
		ri++
		s.count++
	}
	if ri != len(resp) {
		return errParse("fill_missing: response transaction left unused")
	}
	return nil
}

// Finalize requires every slot filled and returns the reconstructed block
// transaction order, transferring ownership out of the state (the avail
// vector is emptied).
func (s *State) Finalize() ([]*tx.Tx, error) {
	if s.count != s.total {
		return nil, errParse("finalize: count %d != total %d", s.count, s.total)
	}
	out := make([]*tx.Tx, s.total)
	for i := range s.avail {
		out[i] = s.avail[i]
		s.avail[i] = nil
	}
	return out, nil
}
