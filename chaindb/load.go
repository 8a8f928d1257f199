package chaindb

import (
	"math/big"

	bolt "go.etcd.io/bbolt"

	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/utxo"
)

// Load rebuilds the in-memory block-index arena and main-chain height
// table from the index bucket. If the store has never connected a block
// (meta["R"] absent) it bootstraps from genesis instead, via Save with a
// fresh empty view.
func (d *DB) Load(genesis blockindex.Header, genesisBlock []byte) error {
	var tipHash [32]byte
	var hasTip bool
	err := d.kv.View(func(tx *bolt.Tx) error {
		h, ok, err := getTip(tx)
		if err != nil {
			return err
		}
		tipHash, hasTip = h, ok
		return nil
	})
	if err != nil {
		return err
	}
	if !hasTip {
		return d.bootstrap(genesis, genesisBlock)
	}

	var all []blockindex.Index
	err = d.kv.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketIndex).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			e, err := blockindex.DecodeEntry(v)
			if err != nil {
				return err
			}
			e.Prev = blockindex.NoIndex
			e.Next = blockindex.NoIndex
			all = append(all, d.arena.Add(e))
		}
		return nil
	})
	if err != nil {
		return errStorage("load: scan index", err)
	}

	genesisIdx := blockindex.NoIndex
	for _, idx := range all {
		e := d.arena.Get(idx)
		if e.Height == 0 {
			genesisIdx = idx
			continue
		}
		prevIdx, ok := d.arena.ByHash(e.Header.PrevBlock)
		if !ok {
			return errCorrupt("load: parent %x missing for entry %x", e.Header.PrevBlock, e.Hash)
		}
		e.Prev = prevIdx
	}
	if genesisIdx == blockindex.NoIndex {
		return errCorrupt("load: no height-0 entry found")
	}

	tipIdx, ok := d.arena.ByHash(tipHash)
	if !ok {
		return errCorrupt("load: tip hash %x not present in index", tipHash)
	}

	tipHeight := d.arena.Get(tipIdx).Height
	heights := make([]blockindex.Index, tipHeight+1)
	for cur := tipIdx; ; {
		e := d.arena.Get(cur)
		heights[e.Height] = cur
		if cur == genesisIdx {
			break
		}
		d.arena.SetNext(e.Prev, cur)
		cur = e.Prev
	}

	d.heights = heights
	d.head = genesisIdx
	d.tail = tipIdx
	return nil
}

// bootstrap installs the genesis block as the sole entry via Save, the
// same path every later connect takes.
func (d *DB) bootstrap(header blockindex.Header, blockBytes []byte) error {
	entry := &blockindex.Entry{
		Hash:      header.Hash(),
		Header:    header,
		Height:    0,
		ChainWork: big.NewInt(0),
		BlockFile: blockindex.NotWritten,
		BlockPos:  blockindex.NotWritten,
		UndoFile:  blockindex.NotWritten,
		UndoPos:   blockindex.NotWritten,
		Prev:      blockindex.NoIndex,
		Next:      blockindex.NoIndex,
	}
	_, err := d.Save(entry, blockBytes, utxo.NewView(d))
	return err
}
