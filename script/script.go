package script

import "fmt"

// Script is an opaque byte program, at most MaxScriptBytes long.
type Script []byte

// Witness is a transaction input's witness stack: a sequence of opaque byte
// strings, each at most MaxStandardPushBytes for standard forms (consensus
// allows larger pushes for program data such as witness scripts).
type Witness [][]byte

// IsEmpty reports whether the witness stack carries no items, the wire
// condition used to decide whether a tx needs the segwit marker at all.
func (w Witness) IsEmpty() bool { return len(w) == 0 }

// pushDataElement parses a single data-push opcode starting at script[pos],
// returning the pushed bytes and the offset just past it.
func pushDataElement(s Script, pos int) (data []byte, next int, err error) {
	if pos >= len(s) {
		return nil, 0, fmt.Errorf("script: truncated push at %d", pos)
	}
	op := s[pos]
	switch {
	case op < OP_PUSHDATA1:
		n := int(op)
		if pos+1+n > len(s) {
			return nil, 0, fmt.Errorf("script: truncated direct push at %d", pos)
		}
		return s[pos+1 : pos+1+n], pos + 1 + n, nil
	case op == OP_PUSHDATA1:
		if pos+2 > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA1 length")
		}
		n := int(s[pos+1])
		if pos+2+n > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA1 data")
		}
		return s[pos+2 : pos+2+n], pos + 2 + n, nil
	case op == OP_PUSHDATA2:
		if pos+3 > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA2 length")
		}
		n := int(s[pos+1]) | int(s[pos+2])<<8
		if pos+3+n > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA2 data")
		}
		return s[pos+3 : pos+3+n], pos + 3 + n, nil
	case op == OP_PUSHDATA4:
		if pos+5 > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA4 length")
		}
		n := int(s[pos+1]) | int(s[pos+2])<<8 | int(s[pos+3])<<16 | int(s[pos+4])<<24
		if n < 0 || pos+5+n > len(s) {
			return nil, 0, fmt.Errorf("script: truncated PUSHDATA4 data")
		}
		return s[pos+5 : pos+5+n], pos + 5 + n, nil
	default:
		return nil, 0, fmt.Errorf("script: opcode %#x at %d is not a data push", op, pos)
	}
}

// ParsedPush is one opcode-or-push element of a disassembled script.
type ParsedPush struct {
	Opcode byte
	Data   []byte // non-nil only for data-push opcodes
}

// Disassemble walks s into its opcode/push sequence. It is lenient about
// trailing garbage after an unparseable opcode, matching the Bitcoin Core
// convention that scripts failing to parse are simply non-standard, not
// fatal to decode.
func Disassemble(s Script) []ParsedPush {
	out := make([]ParsedPush, 0, len(s))
	pos := 0
	for pos < len(s) {
		op := s[pos]
		if isPushOpcode(op) {
			data, next, err := pushDataElement(s, pos)
			if err != nil {
				break
			}
			out = append(out, ParsedPush{Opcode: op, Data: data})
			pos = next
			continue
		}
		out = append(out, ParsedPush{Opcode: op})
		pos++
	}
	return out
}

// StripCodeSeparators removes every OP_CODESEPARATOR byte from s, as required
// when building the legacy (sighash v0) previous-output script.
func StripCodeSeparators(s Script) Script {
	out := make(Script, 0, len(s))
	for _, p := range Disassemble(s) {
		if p.Opcode == OP_CODESEPARATOR {
			continue
		}
		out = appendPush(out, p)
	}
	return out
}

func appendPush(dst Script, p ParsedPush) Script {
	if p.Data == nil && !isPushOpcode(p.Opcode) {
		return append(dst, p.Opcode)
	}
	return append(dst, PushData(p.Data)...)
}

// PushData builds the minimal-push encoding of data.
func PushData(data []byte) []byte {
	n := len(data)
	switch {
	case n < OP_PUSHDATA1:
		out := make([]byte, 0, 1+n)
		out = append(out, byte(n))
		return append(out, data...)
	case n <= 0xff:
		out := make([]byte, 0, 2+n)
		out = append(out, OP_PUSHDATA1, byte(n))
		return append(out, data...)
	case n <= 0xffff:
		out := make([]byte, 0, 3+n)
		out = append(out, OP_PUSHDATA2, byte(n), byte(n>>8))
		return append(out, data...)
	default:
		out := make([]byte, 0, 5+n)
		out = append(out, OP_PUSHDATA4, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		return append(out, data...)
	}
}
