package chaindb

import (
	bolt "go.etcd.io/bbolt"

	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/utxo"
)

// Save connects entry as the new tip: it writes the raw block to a flat
// file if not already written, applies view's coin deltas and undo
// record, updates the index/tip/meta buckets, commits, and then updates
// the in-memory arena/heights/tail. blockBytes is ignored (and may be nil)
// when entry.BlockPos is already set, the Reconnect case.
func (d *DB) Save(entry *blockindex.Entry, blockBytes []byte, view *utxo.View) (blockindex.Index, error) {
	if entry.Height != 0 && entry.Prev == blockindex.NoIndex {
		prevIdx, ok := d.arena.ByHash(entry.Header.PrevBlock)
		if !ok {
			return blockindex.NoIndex, errCorrupt("save: parent %x not indexed", entry.Header.PrevBlock)
		}
		entry.Prev = prevIdx
	}

	if entry.BlockPos == blockindex.NotWritten {
		file, pos, err := d.files.Append(blockBytes)
		if err != nil {
			return blockindex.NoIndex, err
		}
		entry.BlockFile, entry.BlockPos = file, pos
	}

	if view != nil && len(view.UndoLog()) > 0 && entry.UndoPos == blockindex.NotWritten {
		rec := utxo.Record{Spent: view.UndoLog()}
		file, pos, err := d.files.Append(utxo.EncodeRecord(rec))
		if err != nil {
			return blockindex.NoIndex, err
		}
		entry.UndoFile, entry.UndoPos = file, pos
	}

	if shouldSync(d.opts.now(), entry.Header, entry.Height) {
		if err := d.files.Sync(); err != nil {
			return blockindex.NoIndex, err
		}
	}

	err := d.kv.Update(func(tx *bolt.Tx) error {
		if view != nil {
			coinB := tx.Bucket(bucketCoin)
			for op, c := range view.Coins() {
				key := utxo.EncodeOutpointKey(op)
				if c.Spent {
					if err := coinB.Delete(key); err != nil {
						return err
					}
					continue
				}
				if err := coinB.Put(key, utxo.EncodeCoin(*c)); err != nil {
					return err
				}
			}
		}

		if err := putFileInfo(tx, d.files.activeFile, d.files.activePos); err != nil {
			return err
		}

		if err := tx.Bucket(bucketIndex).Put(entry.Hash[:], blockindex.EncodeEntry(*entry)); err != nil {
			return err
		}

		tipB := tx.Bucket(bucketTip)
		if entry.Height != 0 {
			if err := tipB.Delete(entry.Header.PrevBlock[:]); err != nil {
				return err
			}
		}
		if err := tipB.Put(entry.Hash[:], []byte{1}); err != nil {
			return err
		}

		if view != nil {
			if err := putTip(tx, entry.Hash); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return blockindex.NoIndex, errStorage("save: commit", err)
	}

	return d.installEntry(*entry), nil
}

// Reconnect reapplies a previously disconnected tip entry. It is exactly
// Save without a raw block to write: entry.BlockPos is already set from
// its original connect, so Save's block-write step is a no-op.
func (d *DB) Reconnect(entry *blockindex.Entry, view *utxo.View) (blockindex.Index, error) {
	return d.Save(entry, nil, view)
}

// installEntry inserts or updates e in the arena and extends the in-memory
// main-chain height table and tail/head pointers.
func (d *DB) installEntry(e blockindex.Entry) blockindex.Index {
	idx, exists := d.arena.ByHash(e.Hash)
	if exists {
		*d.arena.Get(idx) = e
	} else {
		idx = d.arena.Add(e)
	}
	if e.Prev != blockindex.NoIndex {
		d.arena.SetNext(e.Prev, idx)
	}
	if int(e.Height) >= len(d.heights) {
		grown := make([]blockindex.Index, e.Height+1)
		copy(grown, d.heights)
		d.heights = grown
	}
	d.heights[e.Height] = idx
	d.tail = idx
	if e.Height == 0 {
		d.head = idx
	}
	return idx
}
