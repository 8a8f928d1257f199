package script

// CountSigOpsLegacy counts legacy signature-check opcodes in s. accurate
// controls whether a pushed small-integer immediately before
// OP_CHECKMULTISIG[VERIFY] is decoded into its operand count (used when s is
// directly executed, e.g. p2sh redeem scripts) versus the conservative
// MaxPubkeysPerMultisig upper bound (used for bare scriptSig/scriptPubKey
// scanning, matching consensus behavior).
func CountSigOpsLegacy(s Script, accurate bool) int {
	const maxPubkeysPerMultisig = 20
	n := 0
	lastOp := byte(OP_0)
	for _, p := range Disassemble(s) {
		switch p.Opcode {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY:
			n++
		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			if accurate && IsSmallInteger(lastOp) {
				n += int(lastOp-OP_1) + 1
			} else {
				n += maxPubkeysPerMultisig
			}
		}
		lastOp = p.Opcode
	}
	return n
}

// CountSigOpsP2SH counts the accurate sigops of the redeem script extracted
// from a scriptSig spending a P2SH output: the last data push of scriptSig,
// itself disassembled and counted accurately.
func CountSigOpsP2SH(scriptSig Script) int {
	p := Disassemble(scriptSig)
	if len(p) == 0 || p[len(p)-1].Data == nil {
		return 0
	}
	redeem := Script(p[len(p)-1].Data)
	return CountSigOpsLegacy(redeem, true)
}

// CountWitnessSigOps counts the witness-program sigops contributed by a
// single input given the output script it spends (or, for P2SH-wrapped
// segwit, the redeem script extracted from scriptSig) and its witness stack.
func CountWitnessSigOps(outputScript Script, scriptSig Script, witness Witness) int {
	prog, ok := WitnessProgram(outputScript)
	if !ok {
		if hash, isP2SH := P2SHHash(outputScript); isP2SH {
			_ = hash
			p := Disassemble(scriptSig)
			if len(p) == 0 || p[len(p)-1].Data == nil {
				return 0
			}
			if wp, isWit := WitnessProgram(Script(p[len(p)-1].Data)); isWit {
				return witnessProgramSigOps(wp, witness)
			}
		}
		return 0
	}
	return witnessProgramSigOps(prog, witness)
}

func witnessProgramSigOps(prog WitnessProgramData, witness Witness) int {
	if prog.Version != 0 {
		return 0
	}
	switch len(prog.Program) {
	case 20: // P2WPKH: one implied CHECKSIG.
		return 1
	case 32: // P2WSH: accurate count of the witness script, the last item.
		if len(witness) == 0 {
			return 0
		}
		witnessScript := Script(witness[len(witness)-1])
		return CountSigOpsLegacy(witnessScript, true)
	default:
		return 0
	}
}
