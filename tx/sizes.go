package tx

import "chaincore.dev/node/codec"

// BaseSize is the serialized size excluding any witness data.
func BaseSize(t *Tx) int {
	return len(EncodeLegacy(t))
}

// WitnessSize is 2 (marker+flag) plus the sum of each input's witness-stack
// encoding, or 0 if no input carries a witness.
func WitnessSize(t *Tx) int {
	if !t.HasWitness() {
		return 0
	}
	n := 2
	for _, in := range t.Inputs {
		buf := codec.AppendCompactSize(nil, uint64(len(in.Witness)))
		for _, item := range in.Witness {
			buf = codec.AppendVarBytes(buf, item)
		}
		n += len(buf)
	}
	return n
}

// Weight is 4*base_size + witness_size (BIP141).
func Weight(t *Tx) int {
	return 4*BaseSize(t) + WitnessSize(t)
}

// VSize is ceil(weight/4), the virtual size fee-rate calculations use.
func VSize(t *Tx) int {
	w := Weight(t)
	return (w + 3) / 4
}
