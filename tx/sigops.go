package tx

import "chaincore.dev/node/script"

// SigOpCost computes the weighted signature-operation cost of t:
// legacy sigops (counted on every input and output script) weigh 4x, P2SH
// sigops (counted over the redeem script when the spent coin is P2SH) weigh
// 4x, and witness sigops weigh 1x. src resolves each input's previous
// output; it may be nil, in which case P2SH and witness sigops are not
// counted (legacy-only, for contexts without a view).
func SigOpCost(t *Tx, src PrevOutputSource) int {
	legacy := 0
	for _, in := range t.Inputs {
		legacy += script.CountSigOpsLegacy(in.Script, false)
	}
	for _, o := range t.Outputs {
		legacy += script.CountSigOpsLegacy(o.Script, false)
	}

	p2sh := 0
	witness := 0
	if src != nil {
		for _, in := range t.Inputs {
			prev, ok := src.PrevOutput(in.PrevOut)
			if !ok {
				continue
			}
			if script.Classify(prev.Script) == script.ClassP2SH {
				p2sh += script.CountSigOpsP2SH(in.Script)
			}
			witness += script.CountWitnessSigOps(prev.Script, in.Script, in.Witness)
		}
	}

	return legacy*4 + p2sh*4 + witness
}

// VirtualSigOps converts a weighted sigop cost into the per-vbyte budget
// comparable quantity: ceil(cost/4).
func VirtualSigOps(cost int) int {
	return (cost + 3) / 4
}
