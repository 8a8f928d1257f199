package tx

import (
	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/codec"
	"chaincore.dev/node/script"
)

const (
	SighashAll          = 0x01
	SighashNone         = 0x02
	SighashSingle       = 0x03
	SighashAnyoneCanPay = 0x80

	sighashBaseMask = 0x1f
)

// sighashSingleBug is the fixed 32-byte digest returned for a legacy SINGLE
// sighash whose input index has no matching output — a bug preserved by
// consensus.
var sighashSingleBug = [32]byte{0x01}

// SighashV0 computes the legacy (pre-segwit) signature hash for input index
// under hashType, given the full previous-output script for that input.
func SighashV0(t *Tx, index int, prevScript script.Script, hashType uint32) ([32]byte, error) {
	if index < 0 || index >= len(t.Inputs) {
		return [32]byte{}, errParse("sighash: input index %d out of range", index)
	}
	base := hashType & sighashBaseMask
	if base == SighashSingle && index >= len(t.Outputs) {
		return sighashSingleBug, nil
	}

	stripped := script.StripCodeSeparators(prevScript)
	anyoneCanPay := hashType&SighashAnyoneCanPay != 0

	var inputs []Input
	if anyoneCanPay {
		in := t.Inputs[index]
		in.Script = stripped
		inputs = []Input{in}
	} else {
		inputs = make([]Input, len(t.Inputs))
		for i, in := range t.Inputs {
			if i == index {
				in.Script = stripped
			} else {
				in.Script = nil
			}
			if (base == SighashNone || base == SighashSingle) && i != index {
				in.Sequence = 0
			}
			inputs[i] = in
		}
	}

	var outputs []Output
	switch base {
	case SighashNone:
		outputs = nil
	case SighashSingle:
		outputs = make([]Output, index+1)
		copy(outputs, t.Outputs[:index+1])
		for i := 0; i < index; i++ {
			outputs[i] = Output{Value: -1, Script: nil}
		}
	default:
		outputs = t.Outputs
	}

	modified := &Tx{Version: t.Version, Inputs: inputs, Outputs: outputs, Locktime: t.Locktime}
	preimage := EncodeLegacy(modified)
	preimage = codec.AppendU32LE(preimage, hashType)
	return bcrypto.Sha256d(preimage), nil
}

// SighashV1Cache holds the three reusable BIP143 sub-hashes so that signing
// multiple inputs of the same transaction need not recompute them. Zero
// value is a valid empty cache.
type SighashV1Cache struct {
	hashPrevouts [32]byte
	hashSequence [32]byte
	hashOutputs  [32]byte

	hasPrevouts bool
	hasSequence bool
	hasOutputs  bool
}

// SighashV1 computes the BIP143 segwit signature hash for input index under
// hashType, given the value and script of the coin it spends. cache may be
// nil; when provided, the ANYONECANPAY-independent sub-hashes are computed
// once and reused across calls for the same transaction.
func SighashV1(t *Tx, index int, prevScript script.Script, value int64, hashType uint32, cache *SighashV1Cache) ([32]byte, error) {
	if index < 0 || index >= len(t.Inputs) {
		return [32]byte{}, errParse("sighash: input index %d out of range", index)
	}
	base := hashType & sighashBaseMask
	anyoneCanPay := hashType&SighashAnyoneCanPay != 0

	hashPrevouts := [32]byte{}
	if !anyoneCanPay {
		if cache != nil && cache.hasPrevouts {
			hashPrevouts = cache.hashPrevouts
		} else {
			buf := make([]byte, 0, len(t.Inputs)*36)
			for _, in := range t.Inputs {
				buf = codec.AppendHash(buf, in.PrevOut.Hash)
				buf = codec.AppendU32LE(buf, in.PrevOut.Index)
			}
			hashPrevouts = bcrypto.Sha256d(buf)
			if cache != nil {
				cache.hashPrevouts = hashPrevouts
				cache.hasPrevouts = true
			}
		}
	}

	hashSequence := [32]byte{}
	if !anyoneCanPay && base != SighashSingle && base != SighashNone {
		if cache != nil && cache.hasSequence {
			hashSequence = cache.hashSequence
		} else {
			buf := make([]byte, 0, len(t.Inputs)*4)
			for _, in := range t.Inputs {
				buf = codec.AppendU32LE(buf, in.Sequence)
			}
			hashSequence = bcrypto.Sha256d(buf)
			if cache != nil {
				cache.hashSequence = hashSequence
				cache.hasSequence = true
			}
		}
	}

	hashOutputs := [32]byte{}
	switch {
	case base != SighashSingle && base != SighashNone:
		if cache != nil && cache.hasOutputs {
			hashOutputs = cache.hashOutputs
		} else {
			buf := make([]byte, 0, len(t.Outputs)*33)
			for _, o := range t.Outputs {
				buf = appendOutput(buf, o)
			}
			hashOutputs = bcrypto.Sha256d(buf)
			if cache != nil {
				cache.hashOutputs = hashOutputs
				cache.hasOutputs = true
			}
		}
	case base == SighashSingle && index < len(t.Outputs):
		hashOutputs = bcrypto.Sha256d(appendOutput(nil, t.Outputs[index]))
	}

	in := t.Inputs[index]
	preimage := make([]byte, 0, 200)
	preimage = codec.AppendU32LE(preimage, uint32(t.Version))
	preimage = codec.AppendHash(preimage, hashPrevouts)
	preimage = codec.AppendHash(preimage, hashSequence)
	preimage = codec.AppendHash(preimage, in.PrevOut.Hash)
	preimage = codec.AppendU32LE(preimage, in.PrevOut.Index)
	preimage = codec.AppendVarBytes(preimage, prevScript)
	preimage = codec.AppendI64LE(preimage, value)
	preimage = codec.AppendU32LE(preimage, in.Sequence)
	preimage = codec.AppendHash(preimage, hashOutputs)
	preimage = codec.AppendU32LE(preimage, t.Locktime)
	preimage = codec.AppendU32LE(preimage, hashType)
	return bcrypto.Sha256d(preimage), nil
}

// P2PKHScriptForKeyHash synthesizes the implied p2pkh redeem script BIP143
// uses as the "previous output script" when signing a p2wpkh input.
func P2PKHScriptForKeyHash(hash [20]byte) script.Script {
	return script.BuildP2PKH(hash)
}
