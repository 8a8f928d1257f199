package blockindex

import (
	"math/big"
	"testing"
)

func sampleHeader(nonce uint32) Header {
	return Header{
		Version:    1,
		PrevBlock:  [32]byte{1, 2, 3},
		MerkleRoot: [32]byte{4, 5, 6},
		Time:       1700000000,
		Bits:       0x1d00ffff,
		Nonce:      nonce,
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader(42)
	got, err := DecodeHeader(h.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestHeaderHashDeterministic(t *testing.T) {
	h1 := sampleHeader(1)
	h2 := sampleHeader(1)
	h3 := sampleHeader(2)
	if h1.Hash() != h2.Hash() {
		t.Fatalf("identical headers must hash identically")
	}
	if h1.Hash() == h3.Hash() {
		t.Fatalf("differing headers must hash differently")
	}
}

func TestEntryRoundTrip(t *testing.T) {
	e := Entry{
		Hash:      [32]byte{9},
		Header:    sampleHeader(7),
		Height:    100,
		ChainWork: big.NewInt(123456789),
		BlockFile: 0,
		BlockPos:  128,
		UndoFile:  0,
		UndoPos:   256,
	}
	got, err := DecodeEntry(EncodeEntry(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Hash != e.Hash || got.Height != e.Height || got.BlockPos != e.BlockPos {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, e)
	}
	if got.ChainWork.Cmp(e.ChainWork) != 0 {
		t.Fatalf("chainwork mismatch: got %v want %v", got.ChainWork, e.ChainWork)
	}
}

func TestEntryNotWrittenSentinel(t *testing.T) {
	e := Entry{Hash: [32]byte{1}, Header: sampleHeader(0), ChainWork: big.NewInt(0), BlockFile: NotWritten, BlockPos: NotWritten, UndoFile: NotWritten, UndoPos: NotWritten}
	got, err := DecodeEntry(EncodeEntry(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BlockFile != NotWritten || got.UndoPos != NotWritten {
		t.Fatalf("sentinel value did not survive round trip: %+v", got)
	}
}

func buildChain(a *Arena, n int) []Index {
	idxs := make([]Index, 0, n)
	var prev Index = NoIndex
	for i := 0; i < n; i++ {
		h := sampleHeader(uint32(i))
		idx := a.Add(Entry{Hash: [32]byte{byte(i + 1)}, Header: h, Height: uint32(i), ChainWork: big.NewInt(int64(i)), BlockFile: NotWritten, BlockPos: NotWritten, UndoFile: NotWritten, UndoPos: NotWritten, Prev: prev, Next: NoIndex})
		if prev != NoIndex {
			a.SetNext(prev, idx)
		}
		prev = idx
		idxs = append(idxs, idx)
	}
	return idxs
}

func TestArenaForkPointAndPath(t *testing.T) {
	a := NewArena()
	main := buildChain(a, 5) // genesis..height4

	// Build a side chain branching off height 2.
	forkBase := main[2]
	side1 := a.Add(Entry{Hash: [32]byte{100}, Header: sampleHeader(100), Height: 3, ChainWork: big.NewInt(3), Prev: forkBase, Next: NoIndex, BlockFile: NotWritten, BlockPos: NotWritten, UndoFile: NotWritten, UndoPos: NotWritten})
	side2 := a.Add(Entry{Hash: [32]byte{101}, Header: sampleHeader(101), Height: 4, ChainWork: big.NewInt(4), Prev: side1, Next: NoIndex, BlockFile: NotWritten, BlockPos: NotWritten, UndoFile: NotWritten, UndoPos: NotWritten})

	fp := a.ForkPoint(main[4], side2)
	if fp != forkBase {
		t.Fatalf("expected fork point at height 2, got index %v", fp)
	}

	path := a.PathFromAncestor(forkBase, side2)
	if len(path) != 2 || path[0] != side1 || path[1] != side2 {
		t.Fatalf("unexpected path from ancestor: %v", path)
	}
}
