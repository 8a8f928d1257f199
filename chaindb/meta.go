package chaindb

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

const (
	metaKeyFileInfo      = "F"
	metaKeyTip           = "R"
	metaKeySchemaVersion = "V"
)

// SchemaVersion is the on-disk layout version this build writes and
// accepts. Bump it whenever a change to the bucket/key layout would make an
// older build misread a newer store.
const SchemaVersion uint32 = 1

// getSchemaVersion reads the version recorded under meta["V"]. Absence
// means a brand-new store that has never been stamped.
func getSchemaVersion(tx *bolt.Tx) (version uint32, ok bool, err error) {
	v := tx.Bucket(bucketMeta).Get([]byte(metaKeySchemaVersion))
	if v == nil {
		return 0, false, nil
	}
	if len(v) != 4 {
		return 0, false, errCorrupt("meta[V]: expected 4 bytes, got %d", len(v))
	}
	return binary.LittleEndian.Uint32(v), true, nil
}

func putSchemaVersion(tx *bolt.Tx, version uint32) error {
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], version)
	return tx.Bucket(bucketMeta).Put([]byte(metaKeySchemaVersion), v[:])
}

// getFileInfo reads the active (file, pos) pointer recorded under
// meta["F"]. Absence means a brand-new store; it returns (0, 0, false).
func getFileInfo(tx *bolt.Tx) (file, pos int32, ok bool, err error) {
	v := tx.Bucket(bucketMeta).Get([]byte(metaKeyFileInfo))
	if v == nil {
		return 0, 0, false, nil
	}
	if len(v) != 8 {
		return 0, 0, false, errCorrupt("meta[F]: expected 8 bytes, got %d", len(v))
	}
	file = int32(binary.LittleEndian.Uint32(v[0:4]))
	pos = int32(binary.LittleEndian.Uint32(v[4:8]))
	return file, pos, true, nil
}

func putFileInfo(tx *bolt.Tx, file, pos int32) error {
	var v [8]byte
	binary.LittleEndian.PutUint32(v[0:4], uint32(file))
	binary.LittleEndian.PutUint32(v[4:8], uint32(pos))
	return tx.Bucket(bucketMeta).Put([]byte(metaKeyFileInfo), v[:])
}

// getTip reads the current tip block hash recorded under meta["R"].
// Absence means the store has never connected a block.
func getTip(tx *bolt.Tx) (hash [32]byte, ok bool, err error) {
	v := tx.Bucket(bucketMeta).Get([]byte(metaKeyTip))
	if v == nil {
		return hash, false, nil
	}
	if len(v) != 32 {
		return hash, false, errCorrupt("meta[R]: expected 32 bytes, got %d", len(v))
	}
	copy(hash[:], v)
	return hash, true, nil
}

func putTip(tx *bolt.Tx, hash [32]byte) error {
	return tx.Bucket(bucketMeta).Put([]byte(metaKeyTip), hash[:])
}
