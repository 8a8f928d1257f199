package blockindex

import "fmt"

// ParseError reports a malformed header or entry encoding.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "blockindex: " + e.Msg }

func errParse(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}
