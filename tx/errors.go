// Package tx implements the transaction wire codec (legacy and BIP144
// segwit), both sighash algorithms, per-input verify/sign for the standard
// output forms, and the consensus sanity checks a transaction must pass
// before being considered for inclusion.
package tx

import "fmt"

// ParseError reports a malformed transaction encoding. Parsing never panics;
// every failure path returns one of these.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "tx: parse: " + e.Msg }

func errParse(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// ConsensusError is a structured rejection a peer layer can score and act on:
// it carries the Bitcoin-style reject reason string and a misbehavior score.
type ConsensusError struct {
	Reason string
	Score  int
}

func (e *ConsensusError) Error() string { return e.Reason }

func reject(reason string, score int) error {
	return &ConsensusError{Reason: reason, Score: score}
}
