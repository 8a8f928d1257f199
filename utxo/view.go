package utxo

import "chaincore.dev/node/tx"

// UndoSpent is one entry of a view's undo stack: the coin that existed
// immediately before a spend, restored verbatim when the block that spent
// it is disconnected.
type UndoSpent struct {
	Outpoint Outpoint
	Coin     Coin
}

// View is an in-memory transactional overlay on the UTXO set: a mapping
// Outpoint -> Coin plus an undo stack of spent coins in the exact order
// they were consumed. A View is created per block connect/disconnect and
// discarded once the chain database has committed or rejected it.
type View struct {
	base  Source
	coins map[Outpoint]*Coin
	undo  []UndoSpent
}

// NewView creates an empty overlay backed by base, which may be nil (no
// fallback store, used for isolated consensus checks against a fixed set
// of coins supplied entirely via AddCoin).
func NewView(base Source) *View {
	return &View{base: base, coins: make(map[Outpoint]*Coin)}
}

// GetCoin resolves op, consulting the local overlay before falling back to
// base. A coin already marked Spent in the overlay is treated as absent.
func (v *View) GetCoin(op Outpoint) (Coin, bool, error) {
	if c, ok := v.coins[op]; ok {
		if c.Spent {
			return Coin{}, false, nil
		}
		return *c, true, nil
	}
	if v.base == nil {
		return Coin{}, false, nil
	}
	c, ok, err := v.base.GetCoin(op)
	if err != nil || !ok {
		return Coin{}, false, err
	}
	v.coins[op] = &c
	return c, true, nil
}

// AddCoin records a newly created output as an unspent coin.
func (v *View) AddCoin(op Outpoint, c Coin) {
	c.Spent = false
	v.coins[op] = &c
}

// SpendCoin resolves op, marks it spent, and pushes its pre-spend value
// onto the undo stack. It fails if op is unknown or already spent.
func (v *View) SpendCoin(op Outpoint) (Coin, bool, error) {
	c, ok, err := v.GetCoin(op)
	if err != nil || !ok {
		return Coin{}, false, err
	}
	v.undo = append(v.undo, UndoSpent{Outpoint: op, Coin: c})
	spent := c
	spent.Spent = true
	v.coins[op] = &spent
	return c, true, nil
}

// Coins exposes the overlay for the chain database's flush step: callers
// must not retain the returned map past the view's lifetime.
func (v *View) Coins() map[Outpoint]*Coin { return v.coins }

// UndoLog returns the spent-coin stack accumulated so far, in consumption
// order.
func (v *View) UndoLog() []UndoSpent { return v.undo }

// PrevOutput adapts View to tx.PrevOutputSource for Verify/CheckInputs.
func (v *View) PrevOutput(op tx.Outpoint) (tx.PrevOutput, bool) {
	c, ok, err := v.GetCoin(op)
	if err != nil || !ok {
		return tx.PrevOutput{}, false
	}
	return tx.PrevOutput{Value: c.Output.Value, Script: c.Output.Script}, true
}

// CoinHeight adapts View to the heightFn shape tx.CheckInputs expects for
// coinbase-maturity checks.
func (v *View) CoinHeight(op tx.Outpoint) (height uint32, coinbase bool, found bool) {
	c, ok, err := v.GetCoin(op)
	if err != nil || !ok {
		return 0, false, false
	}
	return c.Height, c.Coinbase, true
}

// ApplyTx spends every one of t's inputs (which must already exist in the
// view or its base) and adds every output as a fresh coin at height. It
// does not run consensus checks; callers run tx.CheckSanity/CheckInputs
// first.
func ApplyTx(v *View, t *tx.Tx, txid [32]byte, height uint32, coinbase bool) error {
	if !coinbase {
		for _, in := range t.Inputs {
			if _, ok, err := v.SpendCoin(in.PrevOut); err != nil {
				return err
			} else if !ok {
				return errMissingCoin(in.PrevOut)
			}
		}
	}
	for i, out := range t.Outputs {
		op := Outpoint{Hash: txid, Index: uint32(i)}
		v.AddCoin(op, Coin{
			Height:   height,
			Coinbase: coinbase,
			Output:   out,
		})
	}
	return nil
}
