package tx

import "chaincore.dev/node/script"

// MaxMoney is the maximum number of base units that may ever exist
// (21,000,000 BTC at 10^8 units/coin), the bound every persisted or accepted
// output value is checked against.
const MaxMoney = 21_000_000 * 100_000_000

// CoinbaseMaturity is the number of confirmations a coinbase output must
// accumulate before it may be spent.
const CoinbaseMaturity = 100

// MaxBlockBaseSize bounds a transaction's non-witness serialized size.
const MaxBlockBaseSize = 1_000_000

// Outpoint references a specific output of a specific transaction.
type Outpoint struct {
	Hash  [32]byte
	Index uint32
}

// NullOutpointIndex is the sentinel index of a coinbase's sole input.
const NullOutpointIndex = 0xFFFFFFFF

// IsNull reports whether op is the null outpoint used by coinbase inputs.
func (op Outpoint) IsNull() bool {
	return op.Hash == [32]byte{} && op.Index == NullOutpointIndex
}

// Input is one transaction input.
type Input struct {
	PrevOut  Outpoint
	Script   script.Script
	Sequence uint32
	Witness  script.Witness
}

// SequenceFinal disables locktime and opt-out of replace-by-fee signaling.
const SequenceFinal = 0xFFFFFFFF

// SequenceRBFThreshold: sequence numbers below this (and not SequenceFinal)
// signal replaceability per BIP125.
const SequenceRBFThreshold = 0xFFFFFFFE

// IsRBFSignaled reports whether seq opts the input into replace-by-fee.
func IsRBFSignaled(seq uint32) bool { return seq < SequenceRBFThreshold }

// Output is one transaction output: a value and a locking script.
type Output struct {
	Value  int64
	Script script.Script
}

// Tx is a parsed transaction. Index is an ephemeral, non-serialized
// attribute used by compact-block prefill to carry a differential position;
// it is never part of the wire or hashed encoding.
type Tx struct {
	Version  int32
	Inputs   []Input
	Outputs  []Output
	Locktime uint32

	Index int
}

// IsCoinbase reports whether tx is shaped like a coinbase: exactly one input
// whose previous outpoint is null.
func (t *Tx) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].PrevOut.IsNull()
}

// HasWitness reports whether any input carries a non-empty witness stack,
// the condition that forces the segwit marker on encode.
func (t *Tx) HasWitness() bool {
	for _, in := range t.Inputs {
		if !in.Witness.IsEmpty() {
			return true
		}
	}
	return false
}
