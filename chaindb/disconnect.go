package chaindb

import (
	bolt "go.etcd.io/bbolt"

	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/tx"
	"chaincore.dev/node/utxo"
)

// GetCoin implements utxo.Source against the committed coin bucket, used
// both by Disconnect's view and by callers verifying transactions against
// the current tip.
func (d *DB) GetCoin(op utxo.Outpoint) (utxo.Coin, bool, error) {
	var coin utxo.Coin
	var found bool
	err := d.kv.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCoin).Get(utxo.EncodeOutpointKey(op))
		if v == nil {
			return nil
		}
		c, err := utxo.DecodeCoin(v)
		if err != nil {
			return err
		}
		coin, found = c, true
		return nil
	})
	if err != nil {
		return utxo.Coin{}, false, errStorage("get_coin", err)
	}
	return coin, found, nil
}

// Disconnect rolls back the current tip entry, restoring the coins it
// spent (from its undo record) and deleting the coins it created. It
// requires entry to be the current tail and to have a parent.
func (d *DB) Disconnect(entry blockindex.Entry) (blockindex.Index, error) {
	if entry.Prev == blockindex.NoIndex {
		return blockindex.NoIndex, errCorrupt("disconnect: entry %x has no parent", entry.Hash)
	}

	blockBytes, err := d.files.Read(entry.BlockFile, entry.BlockPos)
	if err != nil {
		return blockindex.NoIndex, err
	}
	block, err := blockindex.DecodeBlock(blockBytes)
	if err != nil {
		return blockindex.NoIndex, errStorage("disconnect: decode block", err)
	}

	var spent []utxo.UndoSpent
	if entry.UndoPos != blockindex.NotWritten {
		undoBytes, err := d.files.Read(entry.UndoFile, entry.UndoPos)
		if err != nil {
			return blockindex.NoIndex, err
		}
		rec, err := utxo.DecodeRecord(undoBytes)
		if err != nil {
			return blockindex.NoIndex, errStorage("disconnect: decode undo", err)
		}
		spent = rec.Spent
	}

	view := utxo.NewView(d)
	for i := len(block.Transactions) - 1; i >= 0; i-- {
		t := block.Transactions[i]
		txid := tx.TxID(t)
		for o := range t.Outputs {
			op := utxo.Outpoint{Hash: txid, Index: uint32(o)}
			if _, ok, err := view.SpendCoin(op); err != nil {
				return blockindex.NoIndex, errStorage("disconnect: spend created output", err)
			} else if !ok {
				return blockindex.NoIndex, errCorrupt("disconnect: output %x:%d missing from coin set", txid, o)
			}
		}
		if i == 0 {
			continue
		}
		for in := len(t.Inputs) - 1; in >= 0; in-- {
			if len(spent) == 0 {
				return blockindex.NoIndex, errCorrupt("disconnect: undo stack exhausted for %x", entry.Hash)
			}
			last := spent[len(spent)-1]
			spent = spent[:len(spent)-1]
			view.AddCoin(last.Outpoint, last.Coin)
		}
	}
	if len(spent) != 0 {
		return blockindex.NoIndex, errCorrupt("disconnect: %d unused undo entries for %x", len(spent), entry.Hash)
	}

	err = d.kv.Update(func(btx *bolt.Tx) error {
		coinB := btx.Bucket(bucketCoin)
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

		tipB := btx.Bucket(bucketTip)
		if err := tipB.Delete(entry.Hash[:]); err != nil {
			return err
		}
		if err := tipB.Put(entry.Header.PrevBlock[:], []byte{1}); err != nil {
			return err
		}

		return putTip(btx, entry.Header.PrevBlock)
	})
	if err != nil {
		return blockindex.NoIndex, errStorage("disconnect: commit", err)
	}

	d.arena.SetNext(entry.Prev, blockindex.NoIndex)
	d.heights = d.heights[:entry.Height]
	d.tail = entry.Prev
	return d.tail, nil
}
