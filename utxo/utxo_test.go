package utxo

import (
	"testing"

	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/script"
	"chaincore.dev/node/tx"
)

func TestAmountCompressionRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 10, 100, 1234, 5000000000, 21_000_000 * 100_000_000}
	for _, v := range cases {
		got := decompressAmount(compressAmount(v))
		if got != v {
			t.Fatalf("amount %d round tripped to %d", v, got)
		}
	}
}

func TestCoinRoundTripP2PKH(t *testing.T) {
	priv := bcrypto.ParsePrivateKey([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32})
	hash := bcrypto.Hash160(bcrypto.SerializeCompressed(priv.PubKey()))
	c := Coin{Version: 2, Height: 500, Coinbase: true, Output: tx.Output{Value: 123456789, Script: script.BuildP2PKH(hash)}}
	roundTripCoin(t, c)
}

func TestCoinRoundTripP2SH(t *testing.T) {
	var hash [20]byte
	copy(hash[:], []byte("01234567890123456789"))
	c := Coin{Version: 1, Height: 10, Output: tx.Output{Value: 5000, Script: script.BuildP2SH(hash)}}
	roundTripCoin(t, c)
}

func TestCoinRoundTripP2PKCompressed(t *testing.T) {
	priv := bcrypto.ParsePrivateKey([]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9})
	pub := bcrypto.SerializeCompressed(priv.PubKey())
	s := append(script.Script(script.PushData(pub)), script.OP_CHECKSIG)
	c := Coin{Height: 1, Output: tx.Output{Value: 1, Script: s}}
	roundTripCoin(t, c)
}

func TestCoinRoundTripP2PKUncompressed(t *testing.T) {
	priv := bcrypto.ParsePrivateKey([]byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7})
	pub := bcrypto.SerializeUncompressed(priv.PubKey())
	s := append(script.Script(script.PushData(pub)), script.OP_CHECKSIG)
	c := Coin{Height: 2, Output: tx.Output{Value: 9999, Script: s}}
	roundTripCoin(t, c)
}

func TestCoinRoundTripOtherScript(t *testing.T) {
	c := Coin{Height: 3, Output: tx.Output{Value: 42, Script: script.Script{0x51, 0x52, 0x93}}}
	roundTripCoin(t, c)
}

func roundTripCoin(t *testing.T, c Coin) {
	t.Helper()
	got, err := DecodeCoin(EncodeCoin(c))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Height != c.Height || got.Coinbase != c.Coinbase || got.Output.Value != c.Output.Value {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, c)
	}
	if string(got.Output.Script) != string(c.Output.Script) {
		t.Fatalf("script round trip mismatch: got %x want %x", got.Output.Script, c.Output.Script)
	}
}

func TestViewSpendAndUndo(t *testing.T) {
	v := NewView(nil)
	op := tx.Outpoint{Hash: [32]byte{1}, Index: 0}
	v.AddCoin(op, Coin{Height: 10, Output: tx.Output{Value: 5000, Script: script.Script{0x51}}})

	spent, ok, err := v.SpendCoin(op)
	if err != nil || !ok {
		t.Fatalf("spend: %v %v", ok, err)
	}
	if spent.Output.Value != 5000 {
		t.Fatalf("unexpected spent coin value %d", spent.Output.Value)
	}
	if _, ok, _ := v.GetCoin(op); ok {
		t.Fatalf("spent coin should no longer be visible")
	}
	log := v.UndoLog()
	if len(log) != 1 || log[0].Outpoint != op {
		t.Fatalf("expected one undo entry for %v, got %v", op, log)
	}
}

func TestUndoRecordRoundTrip(t *testing.T) {
	r := Record{Spent: []UndoSpent{
		{Outpoint: tx.Outpoint{Hash: [32]byte{1}, Index: 0}, Coin: Coin{Height: 5, Coinbase: true, Output: tx.Output{Value: 100, Script: script.Script{0x51}}}},
		{Outpoint: tx.Outpoint{Hash: [32]byte{2}, Index: 1}, Coin: Coin{Height: 6, Output: tx.Output{Value: 200, Script: script.Script{0x52}}}},
	}}
	got, err := DecodeRecord(EncodeRecord(r))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Spent) != 2 {
		t.Fatalf("expected 2 spent entries, got %d", len(got.Spent))
	}
	for i := range r.Spent {
		if got.Spent[i].Outpoint != r.Spent[i].Outpoint {
			t.Fatalf("entry %d outpoint mismatch", i)
		}
		if got.Spent[i].Coin.Output.Value != r.Spent[i].Coin.Output.Value {
			t.Fatalf("entry %d value mismatch", i)
		}
	}
}

func TestApplyTxSpendsAndCreates(t *testing.T) {
	v := NewView(nil)
	prevOp := tx.Outpoint{Hash: [32]byte{9}, Index: 0}
	v.AddCoin(prevOp, Coin{Height: 1, Output: tx.Output{Value: 1000, Script: script.Script{0x51}}})

	txn := &tx.Tx{
		Version: 1,
		Inputs:  []tx.Input{{PrevOut: prevOp}},
		Outputs: []tx.Output{{Value: 900, Script: script.Script{0x52}}},
	}
	txid := tx.TxID(txn)
	if err := ApplyTx(v, txn, txid, 2, false); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok, _ := v.GetCoin(prevOp); ok {
		t.Fatalf("spent input should be gone")
	}
	createdOp := tx.Outpoint{Hash: txid, Index: 0}
	c, ok, err := v.GetCoin(createdOp)
	if err != nil || !ok {
		t.Fatalf("expected created coin, ok=%v err=%v", ok, err)
	}
	if c.Output.Value != 900 {
		t.Fatalf("unexpected created coin value %d", c.Output.Value)
	}
}
