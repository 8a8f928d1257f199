package relay

import (
	"errors"
	"fmt"
)

// ErrCollision signals a short-id collision during receiver setup: the same
// short id appears more than once, so it cannot name a single slot and
// reconstruction cannot proceed. Callers fall back to requesting the full block.
var ErrCollision = errors.New("relay: short-id collision, fall back to full block")

// ParseError reports a malformed compact-block or get-block-txn encoding,
// or an out-of-bounds reconstruction index.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "relay: " + e.Msg }

func errParse(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}
