package tx

import (
	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/script"
)

// VerifyFlags gates optional consensus rules during verification.
type VerifyFlags uint32

const (
	VerifyP2SH VerifyFlags = 1 << iota
	VerifyWitness
)

// PrevOutput is the previous output a transaction input spends, as seen by
// Verify/CheckInputs. Callers (the chain database's view) supply these via
// PrevOutputSource.
type PrevOutput struct {
	Value  int64
	Script script.Script
}

// PrevOutputSource resolves an input's previous output. It is implemented by
// the UTXO view; Verify never touches storage directly.
type PrevOutputSource interface {
	PrevOutput(op Outpoint) (PrevOutput, bool)
}

// Verify checks every input's script/witness against the previous output it
// claims to spend. All inputs must succeed for the transaction to verify.
func Verify(t *Tx, src PrevOutputSource, flags VerifyFlags) error {
	cache := &SighashV1Cache{}
	for i := range t.Inputs {
		prev, ok := src.PrevOutput(t.Inputs[i].PrevOut)
		if !ok {
			return reject("missingorspent", 0)
		}
		if err := verifyInput(t, i, prev, flags, cache); err != nil {
			return err
		}
	}
	return nil
}

func verifyInput(t *Tx, index int, prev PrevOutput, flags VerifyFlags, cache *SighashV1Cache) error {
	in := t.Inputs[index]
	switch script.Classify(prev.Script) {
	case script.ClassP2PK:
		pub, _ := script.P2PKPubkey(prev.Script)
		return verifyLegacyPush(t, index, prev.Script, in.Script, pub)

	case script.ClassP2PKH:
		hash, _ := script.P2PKHHash(prev.Script)
		sig, pub, err := extractSigPubkeyPush(in.Script)
		if err != nil {
			return err
		}
		if bcrypto.Hash160(pub) != hash {
			return reject("pubkey-hash-mismatch", 100)
		}
		return checkLegacySig(t, index, prev.Script, sig, pub)

	case script.ClassWitnessV0KeyHash:
		if flags&VerifyWitness == 0 {
			return reject("witness-disabled", 0)
		}
		prog, _ := script.WitnessProgram(prev.Script)
		var hash [20]byte
		copy(hash[:], prog.Program)
		return verifyWitnessKeyHash(t, index, hash, prev.Value, in.Witness, cache)

	case script.ClassP2SH:
		if flags&VerifyP2SH == 0 {
			return reject("p2sh-disabled", 0)
		}
		hash, _ := script.P2SHHash(prev.Script)
		return verifyP2SH(t, index, hash, prev.Value, in.Script, in.Witness, flags, cache)

	default:
		return reject("unsupported-script-form", 0)
	}
}

func verifyP2SH(t *Tx, index int, hash [20]byte, value int64, scriptSig script.Script, witness script.Witness, flags VerifyFlags, cache *SighashV1Cache) error {
	parts := script.Disassemble(scriptSig)
	if len(parts) == 0 || parts[len(parts)-1].Data == nil {
		return reject("p2sh-missing-redeem", 100)
	}
	redeem := script.Script(parts[len(parts)-1].Data)
	if bcrypto.Hash160(redeem) != hash {
		return reject("p2sh-hash-mismatch", 100)
	}
	prog, ok := script.WitnessProgram(redeem)
	if !ok || prog.Version != 0 || len(prog.Program) != 20 {
		return reject("unsupported-script-form", 0)
	}
	if flags&VerifyWitness == 0 {
		return reject("witness-disabled", 0)
	}
	var keyHash [20]byte
	copy(keyHash[:], prog.Program)
	return verifyWitnessKeyHash(t, index, keyHash, value, witness, cache)
}

func verifyWitnessKeyHash(t *Tx, index int, hash [20]byte, value int64, witness script.Witness, cache *SighashV1Cache) error {
	if len(witness) != 2 {
		return reject("witness-shape", 100)
	}
	sig, pub := witness[0], witness[1]
	if bcrypto.Hash160(pub) != hash {
		return reject("pubkey-hash-mismatch", 100)
	}
	if len(sig) == 0 {
		return reject("sig-empty", 100)
	}
	hashType := uint32(sig[len(sig)-1])
	der := sig[:len(sig)-1]
	digest, err := SighashV1(t, index, P2PKHScriptForKeyHash(hash), value, hashType, cache)
	if err != nil {
		return err
	}
	pubkey, err := bcrypto.ParsePublicKey(pub)
	if err != nil {
		return reject("pubkey-invalid", 100)
	}
	if !bcrypto.VerifyDER(pubkey, digest, der) {
		return reject("sig-invalid", 100)
	}
	return nil
}

func extractSigPubkeyPush(scriptSig script.Script) (sig, pub []byte, err error) {
	parts := script.Disassemble(scriptSig)
	if len(parts) != 2 || parts[0].Data == nil || parts[1].Data == nil {
		return nil, nil, reject("p2pkh-scriptsig-shape", 100)
	}
	return parts[0].Data, parts[1].Data, nil
}

func verifyLegacyPush(t *Tx, index int, prevScript, scriptSig script.Script, pub []byte) error {
	parts := script.Disassemble(scriptSig)
	if len(parts) != 1 || parts[0].Data == nil {
		return reject("p2pk-scriptsig-shape", 100)
	}
	return checkLegacySig(t, index, prevScript, parts[0].Data, pub)
}

func checkLegacySig(t *Tx, index int, prevScript script.Script, sig, pub []byte) error {
	if len(sig) == 0 {
		return reject("sig-empty", 100)
	}
	hashType := uint32(sig[len(sig)-1])
	der := sig[:len(sig)-1]
	digest, err := SighashV0(t, index, prevScript, hashType)
	if err != nil {
		return err
	}
	pubkey, err := bcrypto.ParsePublicKey(pub)
	if err != nil {
		return reject("pubkey-invalid", 100)
	}
	if !bcrypto.VerifyDER(pubkey, digest, der) {
		return reject("sig-invalid", 100)
	}
	return nil
}
