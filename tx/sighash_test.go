package tx

import (
	"testing"

	"chaincore.dev/node/script"
)

func multiInputTx() *Tx {
	return &Tx{
		Version: 1,
		Inputs: []Input{
			{PrevOut: Outpoint{Hash: [32]byte{1}, Index: 0}, Sequence: SequenceFinal},
			{PrevOut: Outpoint{Hash: [32]byte{2}, Index: 1}, Sequence: SequenceFinal},
		},
		Outputs: []Output{
			{Value: 1000, Script: script.Script{0x51}},
			{Value: 2000, Script: script.Script{0x52}},
		},
		Locktime: 0,
	}
}

func TestSighashV0SingleBugOutOfRange(t *testing.T) {
	tx := &Tx{
		Version: 1,
		Inputs: []Input{
			{PrevOut: Outpoint{Hash: [32]byte{1}, Index: 0}, Sequence: SequenceFinal},
			{PrevOut: Outpoint{Hash: [32]byte{2}, Index: 0}, Sequence: SequenceFinal},
		},
		Outputs: []Output{
			{Value: 1000, Script: script.Script{0x51}},
		},
	}
	digest, err := SighashV0(tx, 1, script.Script{0x76, 0xa9}, SighashSingle)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	if digest != sighashSingleBug {
		t.Fatalf("expected the SINGLE bug digest, got %x", digest)
	}
}

func TestSighashV1CacheMatchesUncached(t *testing.T) {
	tx := multiInputTx()
	prevScript := script.Script{0x76, 0xa9, 0x14}

	cache := &SighashV1Cache{}
	var cached [2][32]byte
	for i := range tx.Inputs {
		d, err := SighashV1(tx, i, prevScript, 5000, SighashAll, cache)
		if err != nil {
			t.Fatalf("cached sighash %d: %v", i, err)
		}
		cached[i] = d
	}

	for i := range tx.Inputs {
		d, err := SighashV1(tx, i, prevScript, 5000, SighashAll, nil)
		if err != nil {
			t.Fatalf("uncached sighash %d: %v", i, err)
		}
		if d != cached[i] {
			t.Fatalf("input %d: cached and uncached digests differ", i)
		}
	}
}

func TestSighashV1DiffersByHashType(t *testing.T) {
	tx := multiInputTx()
	prevScript := script.Script{0x76, 0xa9, 0x14}
	all, err := SighashV1(tx, 0, prevScript, 5000, SighashAll, nil)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	single, err := SighashV1(tx, 0, prevScript, 5000, SighashSingle, nil)
	if err != nil {
		t.Fatalf("sighash: %v", err)
	}
	if all == single {
		t.Fatalf("ALL and SINGLE sighashes must differ")
	}
}
