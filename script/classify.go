package script

// Class identifies a recognized standard output form. Anything else
// (multisig, bare p2sh redeem bodies, taproot, ...) classifies as ClassOther
// and is out of scope for the signer.
type Class int

const (
	ClassOther Class = iota
	ClassP2PK
	ClassP2PKH
	ClassP2SH
	ClassWitnessV0KeyHash
	ClassWitnessV0ScriptHash
)

// Classify inspects a previous-output script and reports its standard form.
func Classify(s Script) Class {
	if prog, ok := WitnessProgram(s); ok {
		switch {
		case prog.Version == 0 && len(prog.Program) == 20:
			return ClassWitnessV0KeyHash
		case prog.Version == 0 && len(prog.Program) == 32:
			return ClassWitnessV0ScriptHash
		default:
			return ClassOther
		}
	}
	if hash, ok := P2SHHash(s); ok {
		_ = hash
		return ClassP2SH
	}
	if hash, ok := P2PKHHash(s); ok {
		_ = hash
		return ClassP2PKH
	}
	if _, ok := P2PKPubkey(s); ok {
		return ClassP2PK
	}
	return ClassOther
}

// P2PKPubkey recognizes `<pubkey> OP_CHECKSIG` and returns the pushed pubkey.
func P2PKPubkey(s Script) ([]byte, bool) {
	p := Disassemble(s)
	if len(p) != 2 || p[1].Opcode != OP_CHECKSIG || p[0].Data == nil {
		return nil, false
	}
	n := len(p[0].Data)
	if n != 33 && n != 65 {
		return nil, false
	}
	return p[0].Data, true
}

// P2PKHHash recognizes `OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY
// OP_CHECKSIG` and returns the pubkey-hash program.
func P2PKHHash(s Script) ([20]byte, bool) {
	var out [20]byte
	p := Disassemble(s)
	if len(p) != 5 {
		return out, false
	}
	if p[0].Opcode != OP_DUP || p[1].Opcode != OP_HASH160 || p[3].Opcode != OP_EQUALVERIFY || p[4].Opcode != OP_CHECKSIG {
		return out, false
	}
	if p[2].Data == nil || len(p[2].Data) != 20 {
		return out, false
	}
	copy(out[:], p[2].Data)
	return out, true
}

// P2SHHash recognizes `OP_HASH160 <20-byte hash> OP_EQUAL` and returns the
// script-hash program.
func P2SHHash(s Script) ([20]byte, bool) {
	var out [20]byte
	p := Disassemble(s)
	if len(p) != 3 {
		return out, false
	}
	if p[0].Opcode != OP_HASH160 || p[2].Opcode != OP_EQUAL {
		return out, false
	}
	if p[1].Data == nil || len(p[1].Data) != 20 {
		return out, false
	}
	copy(out[:], p[1].Data)
	return out, true
}

// WitnessProgramData is a parsed `OP_n <program>` output script.
type WitnessProgramData struct {
	Version byte
	Program []byte
}

// WitnessProgram recognizes a segwit output script: a version push (OP_0 or
// OP_1..OP_16) followed by a single 2-40 byte program push, and nothing else.
func WitnessProgram(s Script) (WitnessProgramData, bool) {
	var out WitnessProgramData
	if len(s) < 4 || len(s) > 42 {
		return out, false
	}
	p := Disassemble(s)
	if len(p) != 2 {
		return out, false
	}
	var version byte
	switch {
	case p[0].Opcode == OP_0:
		version = 0
	case IsSmallInteger(p[0].Opcode):
		version = p[0].Opcode - OP_1 + 1
	default:
		return out, false
	}
	if p[1].Data == nil || len(p[1].Data) < 2 || len(p[1].Data) > 40 {
		return out, false
	}
	return WitnessProgramData{Version: version, Program: p[1].Data}, true
}

// BuildP2PKH constructs a standard pay-to-pubkey-hash output script for hash.
func BuildP2PKH(hash [20]byte) Script {
	out := make(Script, 0, 25)
	out = append(out, OP_DUP, OP_HASH160)
	out = append(out, PushData(hash[:])...)
	out = append(out, OP_EQUALVERIFY, OP_CHECKSIG)
	return out
}

// BuildP2SH constructs a standard pay-to-script-hash output script for hash.
func BuildP2SH(hash [20]byte) Script {
	out := make(Script, 0, 23)
	out = append(out, OP_HASH160)
	out = append(out, PushData(hash[:])...)
	out = append(out, OP_EQUAL)
	return out
}

// BuildWitnessV0KeyHash constructs a `OP_0 <20-byte-hash>` output script.
func BuildWitnessV0KeyHash(hash [20]byte) Script {
	out := make(Script, 0, 22)
	out = append(out, OP_0)
	out = append(out, PushData(hash[:])...)
	return out
}
