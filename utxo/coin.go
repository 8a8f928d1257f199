// Package utxo implements the in-memory UTXO overlay (View), the Coin
// record it tracks, and the undo log used to disconnect a block: the
// view/coin/undo model a block connect/disconnect stages before the chain
// database commits it.
package utxo

import "chaincore.dev/node/tx"

// Coin is an unspent transaction output together with the height and
// coinbase flag of the transaction that created it. Spent marks a coin a
// view has consumed but not yet flushed; the chain database deletes such
// coins on commit rather than persisting them.
type Coin struct {
	Version  int32
	Height   uint32
	Coinbase bool
	Spent    bool
	Output   tx.Output
}

// Outpoint is the key a Coin is stored under.
type Outpoint = tx.Outpoint

// Source resolves a coin a View does not hold locally, typically the chain
// database's committed coin bucket.
type Source interface {
	GetCoin(op Outpoint) (Coin, bool, error)
}
