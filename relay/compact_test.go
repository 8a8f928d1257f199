package relay

import (
	"testing"

	"chaincore.dev/node/blockindex"
	"chaincore.dev/node/codec"
	"chaincore.dev/node/script"
	"chaincore.dev/node/tx"
)

func sampleTxs(n int) []*tx.Tx {
	out := make([]*tx.Tx, n)
	for i := 0; i < n; i++ {
		out[i] = &tx.Tx{
			Version: 1,
			Inputs:  []tx.Input{{PrevOut: tx.Outpoint{Hash: [32]byte{byte(i + 1)}, Index: uint32(i)}, Sequence: tx.SequenceFinal}},
			Outputs: []tx.Output{{Value: int64(1000 + i), Script: script.Script{byte(0x50 + i)}}},
		}
	}
	return out
}

func sampleHeader() blockindex.Header {
	return blockindex.Header{Version: 1, PrevBlock: [32]byte{1}, MerkleRoot: [32]byte{2}, Time: 1700000000, Bits: 0x1d00ffff, Nonce: 7}
}

func TestCompactBlockRoundTrip(t *testing.T) {
	header := sampleHeader()
	txs := sampleTxs(5)

	sender := SetBlock(header, 0xdeadbeef, txs)
	receiver, err := NewReceiver(header, sender.KeyNonce, sender.IDs, sender.Prefilled)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	missing := receiver.MissingIndices()
	if len(missing) != len(txs)-1 {
		t.Fatalf("expected %d missing indices, got %d", len(txs)-1, len(missing))
	}

	resp := make([]*tx.Tx, 0, len(missing))
	for _, idx := range missing {
		resp = append(resp, txs[idx])
	}
	if err := receiver.FillMissing(resp); err != nil {
		t.Fatalf("fill_missing: %v", err)
	}

	block, err := receiver.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(block) != len(txs) {
		t.Fatalf("expected %d transactions, got %d", len(txs), len(block))
	}
	for i := range txs {
		if tx.TxID(block[i]) != tx.TxID(txs[i]) {
			t.Fatalf("transaction order not preserved at index %d", i)
		}
	}
}

func TestCompactBlockSetupRejectsEmptyTotal(t *testing.T) {
	if _, err := NewReceiver(sampleHeader(), 1, nil, nil); err == nil {
		t.Fatalf("expected rejection of total == 0")
	}
}

func TestCompactBlockSetupRejectsOversizedTotal(t *testing.T) {
	n := MaxBlockSize/10 + 1
	ids := make([]uint64, n)
	if _, err := NewReceiver(sampleHeader(), 1, ids, nil); err == nil {
		t.Fatalf("expected rejection of total exceeding MAX_BLOCK_SIZE/10")
	}
}

func TestGetBlockTxnIndicesRoundTrip(t *testing.T) {
	indices := []uint64{2, 3, 7, 8, 100}
	got, err := DecodeIndices(EncodeIndices(indices))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(indices) {
		t.Fatalf("expected %d indices, got %d", len(indices), len(got))
	}
	for i := range indices {
		if got[i] != indices[i] {
			t.Fatalf("index %d mismatch: got %d want %d", i, got[i], indices[i])
		}
	}
}

func TestGetBlockTxnRequestRoundTrip(t *testing.T) {
	req := GetBlockTxnRequest{BlockHash: [32]byte{1, 2, 3}, Indices: []uint64{0, 1, 5}}
	got, err := DecodeGetBlockTxnRequest(req.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BlockHash != req.BlockHash {
		t.Fatalf("block hash mismatch")
	}
	if len(got.Indices) != len(req.Indices) {
		t.Fatalf("indices length mismatch")
	}
}

func TestCompactBlockWireRoundTrip(t *testing.T) {
	header := sampleHeader()
	txs := sampleTxs(5)
	sender := SetBlock(header, 0xdeadbeef, txs)

	encoded := EncodeCompactBlock(sender)
	gotHeader, gotNonce, gotIDs, gotPrefilled, err := DecodeCompactBlock(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gotHeader.Hash() != header.Hash() {
		t.Fatalf("header mismatch")
	}
	if gotNonce != sender.KeyNonce {
		t.Fatalf("key nonce mismatch")
	}
	if len(gotIDs) != len(sender.IDs) {
		t.Fatalf("short id count mismatch: got %d want %d", len(gotIDs), len(sender.IDs))
	}
	for i := range sender.IDs {
		if gotIDs[i] != sender.IDs[i] {
			t.Fatalf("short id %d mismatch: got %d want %d", i, gotIDs[i], sender.IDs[i])
		}
	}
	if len(gotPrefilled) != len(sender.Prefilled) {
		t.Fatalf("prefilled count mismatch")
	}
	if gotPrefilled[0].Index != sender.Prefilled[0].Index {
		t.Fatalf("prefilled index mismatch: got %d want %d", gotPrefilled[0].Index, sender.Prefilled[0].Index)
	}
	if tx.TxID(gotPrefilled[0].Tx) != tx.TxID(sender.Prefilled[0].Tx) {
		t.Fatalf("prefilled tx mismatch")
	}

	receiver, err := NewReceiver(gotHeader, gotNonce, gotIDs, gotPrefilled)
	if err != nil {
		t.Fatalf("setup from decoded fields: %v", err)
	}
	if len(receiver.MissingIndices()) != len(txs)-1 {
		t.Fatalf("expected %d missing indices, got %d", len(txs)-1, len(receiver.MissingIndices()))
	}
}

func TestBlockTxnRoundTrip(t *testing.T) {
	txs := sampleTxs(3)
	resp := BlockTxn{BlockHash: [32]byte{7, 7, 7}, Txs: txs}
	got, err := DecodeBlockTxn(EncodeBlockTxn(resp))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BlockHash != resp.BlockHash {
		t.Fatalf("block hash mismatch")
	}
	if len(got.Txs) != len(txs) {
		t.Fatalf("tx count mismatch")
	}
	for i := range txs {
		if tx.TxID(got.Txs[i]) != tx.TxID(txs[i]) {
			t.Fatalf("tx %d mismatch", i)
		}
	}
}

func TestShortIDWireRoundTrip48Bit(t *testing.T) {
	id := uint64(0xFFFFFFFFFFFF)
	b := appendShortID(nil, id)
	if len(b) != shortIDSize {
		t.Fatalf("expected %d-byte short id encoding, got %d", shortIDSize, len(b))
	}
	got, err := readShortID(codec.NewCursor(b))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != id {
		t.Fatalf("short id round trip mismatch: got %d want %d", got, id)
	}
}

func TestShortIDDeterministic(t *testing.T) {
	header := sampleHeader()
	k0, k1 := deriveSipKeys(header.Encode(), 42)
	h := [32]byte{9, 9, 9}
	a := ShortID(k0, k1, h)
	b := ShortID(k0, k1, h)
	if a != b {
		t.Fatalf("short id must be deterministic for the same key and hash")
	}
	k0b, k1b := deriveSipKeys(header.Encode(), 43)
	c := ShortID(k0b, k1b, h)
	if a == c {
		t.Fatalf("short id should differ across key nonces (overwhelmingly likely)")
	}
}
