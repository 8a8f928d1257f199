package tx

// CheckSanity enforces the stateless consensus checks that do not require a
// UTXO view, in the fixed order consensus expects so that the first
// violation encountered is the one reported.
func CheckSanity(t *Tx) error {
	if len(t.Inputs) == 0 {
		return reject("bad-txns-vin-empty", 100)
	}
	if len(t.Outputs) == 0 {
		return reject("bad-txns-vout-empty", 100)
	}
	if BaseSize(t) > MaxBlockBaseSize {
		return reject("bad-txns-oversize", 100)
	}

	var total int64
	for _, o := range t.Outputs {
		if o.Value < 0 {
			return reject("bad-txns-vout-negative", 100)
		}
		if o.Value > MaxMoney {
			return reject("bad-txns-vout-toolarge", 100)
		}
		total += o.Value
		if total > MaxMoney {
			return reject("bad-txns-txouttotal-toolarge", 100)
		}
	}

	seen := make(map[Outpoint]struct{}, len(t.Inputs))
	for _, in := range t.Inputs {
		if _, dup := seen[in.PrevOut]; dup {
			return reject("bad-txns-inputs-duplicate", 100)
		}
		seen[in.PrevOut] = struct{}{}
	}

	if t.IsCoinbase() {
		n := len(t.Inputs[0].Script)
		if n < 2 || n > 100 {
			return reject("bad-cb-length", 100)
		}
		return nil
	}
	for _, in := range t.Inputs {
		if in.PrevOut.IsNull() {
			return reject("bad-txns-prevout-null", 10)
		}
	}
	return nil
}

// CheckInputs enforces the consensus checks that require resolving each
// input's previous output: maturity, value ranges, and fee bounds. It
// assumes CheckSanity has already passed.
func CheckInputs(t *Tx, src PrevOutputSource, heightFn func(Outpoint) (uint32, bool, bool), currentHeight uint32) error {
	if t.IsCoinbase() {
		return nil
	}
	var sumIn int64
	for _, in := range t.Inputs {
		prev, ok := src.PrevOutput(in.PrevOut)
		if !ok {
			return reject("missingorspent", 0)
		}
		if heightFn != nil {
			height, isCoinbase, found := heightFn(in.PrevOut)
			if found && isCoinbase && currentHeight < height+CoinbaseMaturity {
				return reject("premature-spend-of-coinbase", 0)
			}
		}
		if prev.Value < 0 || prev.Value > MaxMoney {
			return reject("bad-txns-inputvalues-outofrange", 100)
		}
		sumIn += prev.Value
		if sumIn > MaxMoney {
			return reject("bad-txns-inputvalues-outofrange", 100)
		}
	}

	var sumOut int64
	for _, o := range t.Outputs {
		sumOut += o.Value
	}
	if sumOut > sumIn {
		return reject("bad-txns-in-belowout", 100)
	}
	fee := sumIn - sumOut
	if fee < 0 {
		return reject("bad-txns-fee-negative", 100)
	}
	if fee > MaxMoney {
		return reject("bad-txns-fee-outofrange", 100)
	}
	return nil
}
