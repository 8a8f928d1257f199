package tx

import (
	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/codec"
	"chaincore.dev/node/script"
)

const (
	segwitMarker byte = 0x00
	segwitFlag   byte = 0x01
)

// EncodeLegacy serializes t without any witness data:
// version ‖ inputs ‖ outputs ‖ locktime.
func EncodeLegacy(t *Tx) []byte {
	out := make([]byte, 0, 64+32*len(t.Inputs)+32*len(t.Outputs))
	out = codec.AppendU32LE(out, uint32(t.Version))
	out = codec.AppendCompactSize(out, uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		out = appendInput(out, in)
	}
	out = codec.AppendCompactSize(out, uint64(len(t.Outputs)))
	for _, o := range t.Outputs {
		out = appendOutput(out, o)
	}
	out = codec.AppendU32LE(out, t.Locktime)
	return out
}

// EncodeSegwit serializes t in the BIP144 form:
// version ‖ 0x00 ‖ 0x01 ‖ inputs ‖ outputs ‖ witness_stacks ‖ locktime.
// The marker/flag pair is always emitted by this function; callers should
// prefer Encode, which only uses the segwit form when a witness is present.
func EncodeSegwit(t *Tx) []byte {
	out := make([]byte, 0, 64+32*len(t.Inputs)+32*len(t.Outputs))
	out = codec.AppendU32LE(out, uint32(t.Version))
	out = append(out, segwitMarker, segwitFlag)
	out = codec.AppendCompactSize(out, uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		out = appendInput(out, in)
	}
	out = codec.AppendCompactSize(out, uint64(len(t.Outputs)))
	for _, o := range t.Outputs {
		out = appendOutput(out, o)
	}
	for _, in := range t.Inputs {
		out = appendWitness(out, in.Witness)
	}
	out = codec.AppendU32LE(out, t.Locktime)
	return out
}

// Encode serializes t in whichever form round-trips: segwit iff at least one
// input carries a witness, legacy otherwise.
func Encode(t *Tx) []byte {
	if t.HasWitness() {
		return EncodeSegwit(t)
	}
	return EncodeLegacy(t)
}

func appendInput(out []byte, in Input) []byte {
	out = codec.AppendHash(out, in.PrevOut.Hash)
	out = codec.AppendU32LE(out, in.PrevOut.Index)
	out = codec.AppendVarBytes(out, in.Script)
	out = codec.AppendU32LE(out, in.Sequence)
	return out
}

func appendOutput(out []byte, o Output) []byte {
	out = codec.AppendI64LE(out, o.Value)
	out = codec.AppendVarBytes(out, o.Script)
	return out
}

func appendWitness(out []byte, w script.Witness) []byte {
	out = codec.AppendCompactSize(out, uint64(len(w)))
	for _, item := range w {
		out = codec.AppendVarBytes(out, item)
	}
	return out
}

// Decode parses a transaction from b, accepting either the legacy or the
// BIP144 segwit encoding, and returns the number of bytes consumed.
//
// After reading version the decoder peeks two bytes; if they read 0x00 0x01
// it consumes them and expects a witness stack per input. It rejects trailing
// flag bits beyond bit 0 and rejects inputs.length==0 && outputs.length!=0,
// which would otherwise be ambiguous with the segwit marker on re-encode.
// A segwit-marked encoding whose witness stacks are all empty is rejected
// too; this is what catches a zero-input legacy encoding whose count bytes
// read as the marker.
func Decode(b []byte) (*Tx, int, error) {
	c := codec.NewCursor(b)
	t := &Tx{}

	version, err := c.ReadU32LE()
	if err != nil {
		return nil, 0, errParse("version: %v", err)
	}
	t.Version = int32(version)

	segwit := false
	if peek := c.PeekBytes(2); len(peek) == 2 && peek[0] == segwitMarker {
		if peek[1]&^segwitFlag != 0 {
			return nil, 0, errParse("unsupported flag bits %#x", peek[1])
		}
		if peek[1] == segwitFlag {
			segwit = true
			c.Advance(2)
		}
	}

	nInputs, err := c.ReadCompactSize()
	if err != nil {
		return nil, 0, errParse("input count: %v", err)
	}
	t.Inputs = make([]Input, nInputs)
	for i := range t.Inputs {
		in, err := readInput(c)
		if err != nil {
			return nil, 0, errParse("input %d: %v", i, err)
		}
		t.Inputs[i] = in
	}

	nOutputs, err := c.ReadCompactSize()
	if err != nil {
		return nil, 0, errParse("output count: %v", err)
	}
	if nInputs == 0 && nOutputs != 0 {
		return nil, 0, errParse("zero inputs with nonzero outputs is ambiguous with segwit marker")
	}
	t.Outputs = make([]Output, nOutputs)
	for i := range t.Outputs {
		o, err := readOutput(c)
		if err != nil {
			return nil, 0, errParse("output %d: %v", i, err)
		}
		t.Outputs[i] = o
	}

	if segwit {
		for i := range t.Inputs {
			w, err := readWitness(c)
			if err != nil {
				return nil, 0, errParse("witness %d: %v", i, err)
			}
			t.Inputs[i].Witness = w
		}
		if !t.HasWitness() {
			return nil, 0, errParse("segwit marker present but no witness data")
		}
	}

	t.Locktime, err = c.ReadU32LE()
	if err != nil {
		return nil, 0, errParse("locktime: %v", err)
	}
	return t, c.Pos(), nil
}

func readInput(c *codec.Cursor) (Input, error) {
	var in Input
	hash, err := c.ReadHash()
	if err != nil {
		return in, err
	}
	index, err := c.ReadU32LE()
	if err != nil {
		return in, err
	}
	scriptLen, err := c.ReadCompactSize()
	if err != nil {
		return in, err
	}
	sb, err := c.ReadBytes(int(scriptLen))
	if err != nil {
		return in, err
	}
	seq, err := c.ReadU32LE()
	if err != nil {
		return in, err
	}
	in.PrevOut = Outpoint{Hash: hash, Index: index}
	in.Script = script.Script(sb)
	in.Sequence = seq
	return in, nil
}

func readOutput(c *codec.Cursor) (Output, error) {
	var o Output
	value, err := c.ReadU64LE()
	if err != nil {
		return o, err
	}
	scriptLen, err := c.ReadCompactSize()
	if err != nil {
		return o, err
	}
	sb, err := c.ReadBytes(int(scriptLen))
	if err != nil {
		return o, err
	}
	o.Value = int64(value)
	o.Script = script.Script(sb)
	return o, nil
}

func readWitness(c *codec.Cursor) (script.Witness, error) {
	n, err := c.ReadCompactSize()
	if err != nil {
		return nil, err
	}
	w := make(script.Witness, n)
	for i := range w {
		itemLen, err := c.ReadCompactSize()
		if err != nil {
			return nil, err
		}
		item, err := c.ReadBytes(int(itemLen))
		if err != nil {
			return nil, err
		}
		w[i] = item
	}
	return w, nil
}

// TxID is the double-SHA-256 of the legacy (no-witness) encoding.
func TxID(t *Tx) [32]byte {
	return bcrypto.Sha256d(EncodeLegacy(t))
}

// WTxID is the double-SHA-256 of the segwit encoding; it equals TxID when no
// input carries a witness.
func WTxID(t *Tx) [32]byte {
	if !t.HasWitness() {
		return TxID(t)
	}
	return bcrypto.Sha256d(EncodeSegwit(t))
}
