package tx

import (
	"bytes"
	"testing"

	"chaincore.dev/node/script"
)

func sampleLegacyTx() *Tx {
	return &Tx{
		Version: 2,
		Inputs: []Input{
			{PrevOut: Outpoint{Hash: [32]byte{1}, Index: 0}, Script: script.Script{0x01, 0x02}, Sequence: SequenceFinal},
		},
		Outputs: []Output{
			{Value: 5000, Script: script.Script{0x76, 0xa9}},
		},
		Locktime: 0,
	}
}

func sampleSegwitTx() *Tx {
	t := sampleLegacyTx()
	t.Inputs = append(t.Inputs, Input{
		PrevOut:  Outpoint{Hash: [32]byte{2}, Index: 1},
		Script:   script.Script{},
		Sequence: SequenceFinal,
		Witness:  script.Witness{{0x30, 0x44}, {0x02, 0x03}},
	})
	return t
}

func TestRoundTripLegacy(t *testing.T) {
	orig := sampleLegacyTx()
	enc := Encode(orig)
	got, n, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(enc) {
		t.Fatalf("decode consumed %d want %d", n, len(enc))
	}
	if !bytes.Equal(Encode(got), enc) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripSegwit(t *testing.T) {
	orig := sampleSegwitTx()
	enc := Encode(orig)
	got, n, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(enc) {
		t.Fatalf("decode consumed %d want %d", n, len(enc))
	}
	if !bytes.Equal(Encode(got), enc) {
		t.Fatalf("round trip mismatch")
	}
	if len(got.Inputs[1].Witness) != 2 {
		t.Fatalf("expected witness to round trip")
	}
}

func TestTxIDEqualsWTxIDWithoutWitness(t *testing.T) {
	plain := sampleLegacyTx()
	if TxID(plain) != WTxID(plain) {
		t.Fatalf("txid should equal wtxid for a witness-less tx")
	}
	withWitness := sampleSegwitTx()
	if TxID(withWitness) == WTxID(withWitness) {
		t.Fatalf("txid should differ from wtxid once a witness is present")
	}
}

func TestDecodeRejectsAmbiguousZeroInputs(t *testing.T) {
	// version(4) + input_count(0) + output_count(1) + output + locktime(4)
	var b []byte
	b = append(b, 0x02, 0x00, 0x00, 0x00) // version
	b = append(b, 0x00)                   // 0 inputs
	b = append(b, 0x01)                   // 1 output
	b = append(b, make([]byte, 8)...)     // value
	b = append(b, 0x00)                   // empty script
	b = append(b, 0x00, 0x00, 0x00, 0x00) // locktime
	if _, _, err := Decode(b); err == nil {
		t.Fatalf("expected rejection of zero-input nonzero-output tx")
	}
}
