package tx

import (
	"bytes"

	"chaincore.dev/node/bcrypto"
	"chaincore.dev/node/script"
)

// SignInput signs input index of t, given the previous output it spends and
// the hash type to sign under. It recognizes only p2pk, p2pkh, p2wpkh, and
// p2sh-wrapped p2wpkh; multisig, other P2SH, and taproot return an error.
//
// It mutates t.Inputs[index] in place, setting Script and/or Witness.
func SignInput(t *Tx, index int, priv *bcrypto.PrivateKey, prev PrevOutput, hashType uint32) error {
	if index < 0 || index >= len(t.Inputs) {
		return errParse("sign: input index %d out of range", index)
	}
	pub := priv.PubKey()
	compressed := bcrypto.SerializeCompressed(pub)
	uncompressed := bcrypto.SerializeUncompressed(pub)
	compressedHash := bcrypto.Hash160(compressed)

	switch script.Classify(prev.Script) {
	case script.ClassP2PK:
		want, _ := script.P2PKPubkey(prev.Script)
		var pubBytes []byte
		switch len(want) {
		case 33:
			pubBytes = compressed
		case 65:
			pubBytes = uncompressed
		}
		if !bytes.Equal(want, pubBytes) {
			return errParse("sign: p2pk pubkey mismatch")
		}
		digest, err := SighashV0(t, index, prev.Script, hashType)
		if err != nil {
			return err
		}
		sig := append(bcrypto.SignDER(priv, digest), byte(hashType))
		t.Inputs[index].Script = script.Script(script.PushData(sig))
		return nil

	case script.ClassP2PKH:
		hash, _ := script.P2PKHHash(prev.Script)
		pubBytes, err := pubkeyForHash(hash, compressed, uncompressed, compressedHash)
		if err != nil {
			return err
		}
		digest, err := SighashV0(t, index, prev.Script, hashType)
		if err != nil {
			return err
		}
		sig := append(bcrypto.SignDER(priv, digest), byte(hashType))
		s := script.Script(script.PushData(sig))
		s = append(s, script.PushData(pubBytes)...)
		t.Inputs[index].Script = s
		return nil

	case script.ClassWitnessV0KeyHash:
		prog, _ := script.WitnessProgram(prev.Script)
		var hash [20]byte
		copy(hash[:], prog.Program)
		if hash != compressedHash {
			return errParse("sign: p2wpkh requires the compressed pubkey")
		}
		return signWitnessKeyHash(t, index, priv, hash, prev.Value, hashType, compressed)

	case script.ClassP2SH:
		hash, _ := script.P2SHHash(prev.Script)
		program := script.BuildWitnessV0KeyHash(compressedHash)
		if bcrypto.Hash160(program) != hash {
			return errParse("sign: p2sh does not wrap this key's p2wpkh program")
		}
		t.Inputs[index].Script = script.Script(script.PushData(program))
		return signWitnessKeyHash(t, index, priv, compressedHash, prev.Value, hashType, compressed)

	default:
		return errParse("sign: unsupported previous-output script form")
	}
}

func pubkeyForHash(hash [20]byte, compressed, uncompressed []byte, compressedHash [20]byte) ([]byte, error) {
	if compressedHash == hash {
		return compressed, nil
	}
	if bcrypto.Hash160(uncompressed) == hash {
		return uncompressed, nil
	}
	return nil, errParse("sign: p2pkh pubkey-hash mismatch")
}

func signWitnessKeyHash(t *Tx, index int, priv *bcrypto.PrivateKey, hash [20]byte, value int64, hashType uint32, compressedPub []byte) error {
	digest, err := SighashV1(t, index, P2PKHScriptForKeyHash(hash), value, hashType, nil)
	if err != nil {
		return err
	}
	sig := append(bcrypto.SignDER(priv, digest), byte(hashType))
	t.Inputs[index].Witness = script.Witness{sig, compressedPub}
	return nil
}
