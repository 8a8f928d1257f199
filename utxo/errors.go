package utxo

import "fmt"

// ParseError reports a malformed coin or undo-record encoding.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "utxo: " + e.Msg }

func errParse(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func errMissingCoin(op Outpoint) error {
	return errParse("missing coin for outpoint %x:%d", op.Hash, op.Index)
}
