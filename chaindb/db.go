// Package chaindb implements the persistent chain database: a bbolt-backed
// key/value store for block-index entries, the committed UTXO set, and
// chain metadata, paired with append-only flat files holding raw block and
// undo records. It is grounded on the teacher's node/store package, which
// wires the same bbolt-as-ordered-KV-store contract around a different
// domain model.
package chaindb

import (
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"chaincore.dev/node/blockindex"
)

var (
	bucketMeta  = []byte("meta")
	bucketCoin  = []byte("coin")
	bucketIndex = []byte("index")
	bucketTip   = []byte("tip")
)

// DB is an open chain database: the bbolt handle, the flat-file writer,
// and the in-memory block-index arena it keeps synchronized with meta["R"].
type DB struct {
	opts  Options
	kv    *bolt.DB
	files *flatFiles

	arena   *blockindex.Arena
	heights []blockindex.Index
	head    blockindex.Index
	tail    blockindex.Index
}

// Open opens (creating if absent) the chain database rooted at
// opts.Prefix. It does not load chain state — call Load afterward.
func Open(opts Options) (*DB, error) {
	if opts.Prefix == "" {
		return nil, errStorage("open", errNoPrefix)
	}
	if err := os.MkdirAll(opts.Prefix, 0o755); err != nil {
		return nil, errStorage("open: mkdir", err)
	}
	blocksDir := filepath.Join(opts.Prefix, "blocks")

	boltOpts := &bolt.Options{Timeout: time.Second}
	if opts.MapSize > 0 {
		boltOpts.InitialMmapSize = int(opts.MapSize)
	}
	kv, err := bolt.Open(filepath.Join(opts.Prefix, "chain.db"), 0o600, boltOpts)
	if err != nil {
		return nil, errStorage("open: bbolt", err)
	}

	if err := kv.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketCoin, bucketIndex, bucketTip} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		version, ok, err := getSchemaVersion(tx)
		if err != nil {
			return err
		}
		if !ok {
			return putSchemaVersion(tx, SchemaVersion)
		}
		if version != SchemaVersion {
			return errCorrupt("schema version %d unsupported (this build writes %d)", version, SchemaVersion)
		}
		return nil
	}); err != nil {
		kv.Close()
		return nil, errStorage("open: buckets", err)
	}

	var file, pos int32
	err = kv.View(func(tx *bolt.Tx) error {
		f, p, ok, err := getFileInfo(tx)
		if err != nil {
			return err
		}
		if ok {
			file, pos = f, p
		}
		return nil
	})
	if err != nil {
		kv.Close()
		return nil, err
	}

	files, err := openFlatFiles(blocksDir, file, pos)
	if err != nil {
		kv.Close()
		return nil, err
	}

	return &DB{
		opts:  opts,
		kv:    kv,
		files: files,
		arena: blockindex.NewArena(),
		head:  blockindex.NoIndex,
		tail:  blockindex.NoIndex,
	}, nil
}

// Close releases the flat-file handle and the bbolt database.
func (d *DB) Close() error {
	var first error
	if d.files != nil {
		if err := d.files.Close(); err != nil && first == nil {
			first = err
		}
	}
	if d.kv != nil {
		if err := d.kv.Close(); err != nil && first == nil {
			first = errStorage("close", err)
		}
	}
	return first
}

// Tip returns the current main-chain tip entry and its index, or
// (Entry{}, NoIndex, false) if the store has no connected blocks yet.
func (d *DB) Tip() (blockindex.Entry, blockindex.Index, bool) {
	if d.tail == blockindex.NoIndex {
		return blockindex.Entry{}, blockindex.NoIndex, false
	}
	return *d.arena.Get(d.tail), d.tail, true
}

// Height returns the main-chain entry at height h, or false if h exceeds
// the current tip height.
func (d *DB) Height(h uint32) (blockindex.Entry, blockindex.Index, bool) {
	if int(h) >= len(d.heights) {
		return blockindex.Entry{}, blockindex.NoIndex, false
	}
	idx := d.heights[h]
	return *d.arena.Get(idx), idx, true
}

// Entry looks up an indexed block by hash, main chain or not.
func (d *DB) Entry(hash [32]byte) (blockindex.Entry, blockindex.Index, bool) {
	idx, ok := d.arena.ByHash(hash)
	if !ok {
		return blockindex.Entry{}, blockindex.NoIndex, false
	}
	return *d.arena.Get(idx), idx, true
}

// Arena exposes the in-memory block-index for fork-point/path computations
// ahead of a reorg.
func (d *DB) Arena() *blockindex.Arena { return d.arena }
