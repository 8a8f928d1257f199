package blockindex

import (
	"math/big"

	"chaincore.dev/node/codec"
)

// EncodeEntry serializes e the way the chain database's index bucket
// stores it: 32-byte hash, 80-byte header, 4-byte height, 32-byte
// chainwork, 4-byte block_file, block_pos, undo_file, undo_pos. Prev/Next
// are in-memory-only and never serialized; they are rebuilt by Load from
// the header's prev-block field and the heights walk.
func EncodeEntry(e Entry) []byte {
	out := make([]byte, 0, 32+HeaderBytes+4+32+4*4)
	out = codec.AppendHash(out, e.Hash)
	out = append(out, e.Header.Encode()...)
	out = codec.AppendU32LE(out, e.Height)

	work := e.ChainWork
	if work == nil {
		work = big.NewInt(0)
	}
	var workBuf [32]byte
	work.FillBytes(workBuf[:])
	out = append(out, workBuf[:]...)

	out = codec.AppendU32LE(out, uint32(e.BlockFile))
	out = codec.AppendU32LE(out, uint32(e.BlockPos))
	out = codec.AppendU32LE(out, uint32(e.UndoFile))
	out = codec.AppendU32LE(out, uint32(e.UndoPos))
	return out
}

// DecodeEntry parses an entry previously written by EncodeEntry. Prev and
// Next are left as NoIndex; the caller (Load) resolves them.
func DecodeEntry(b []byte) (Entry, error) {
	const want = 32 + HeaderBytes + 4 + 32 + 4*4
	if len(b) != want {
		return Entry{}, errParse("entry: expected %d bytes, got %d", want, len(b))
	}
	cur := codec.NewCursor(b)
	hash, _ := cur.ReadHash()
	headerBytes, _ := cur.ReadBytes(HeaderBytes)
	header, err := DecodeHeader(headerBytes)
	if err != nil {
		return Entry{}, err
	}
	height, _ := cur.ReadU32LE()
	workBytes, _ := cur.ReadBytes(32)
	blockFile, _ := cur.ReadU32LE()
	blockPos, _ := cur.ReadU32LE()
	undoFile, _ := cur.ReadU32LE()
	undoPos, _ := cur.ReadU32LE()

	return Entry{
		Hash:      hash,
		Header:    header,
		Height:    height,
		ChainWork: new(big.Int).SetBytes(workBytes),
		BlockFile: int32(blockFile),
		BlockPos:  int32(blockPos),
		UndoFile:  int32(undoFile),
		UndoPos:   int32(undoPos),
		Prev:      NoIndex,
		Next:      NoIndex,
	}, nil
}
