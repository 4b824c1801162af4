package hwl

import "fmt"

// Op is a decoded instruction.
type Op uint8

const (
	OpNop Op = iota
	OpRight
	OpLeft
	OpInc
	OpDec
	OpOutput
	OpReset
	OpSkip
	OpLoop
	OpRestart
	OpHalt
)

var opNames = map[Op]string{
	OpNop:     "nop",
	OpRight:   "move-right",
	OpLeft:    "move-left",
	OpInc:     "increment",
	OpDec:     "decrement",
	OpOutput:  "output",
	OpReset:   "reset-cell",
	OpSkip:    "skip-if-zero",
	OpLoop:    "loop-if-nonzero",
	OpRestart: "restart",
	OpHalt:    "terminate",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// ParseOp maps a catalog operation name to its Op. "nop" is not accepted;
// characters are no-ops by being left out of an alphabet.
func ParseOp(name string) (Op, error) {
	for op, n := range opNames {
		if op != OpNop && n == name {
			return op, nil
		}
	}
	return OpNop, fmt.Errorf("unknown operation %q", name)
}

// Alphabet maps instruction characters to operations.
type Alphabet map[rune]Op

// Decode classifies every character of source. Unknown characters decode to
// OpNop so the program counter still advances over them.
func (a Alphabet) Decode(source string) []Op {
	ops := make([]Op, 0, len(source))
	for _, r := range source {
		ops = append(ops, a[r])
	}
	return ops
}

// Symbol returns the character bound to op, or 0 when op is not in the
// alphabet.
func (a Alphabet) Symbol(op Op) rune {
	var best rune
	for r, o := range a {
		if o == op && (best == 0 || r < best) {
			best = r
		}
	}
	return best
}
