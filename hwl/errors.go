package hwl

import (
	"errors"
	"fmt"
)

var (
	// ErrInputRead reports that caller code could not be read.
	ErrInputRead = errors.New("invalid input")
	// ErrUnsupportedCode is returned when caller code is given to a canned
	// variant.
	ErrUnsupportedCode   = errors.New("custom code is not supported")
	ErrUnmatchedBracket  = errors.New("unmatched bracket")
	ErrStepQuotaExceeded = errors.New("step quota exceeded")
	ErrUnknownVariant    = errors.New("unknown variant")
	ErrInvalidVariant    = errors.New("invalid variant")
)

// UnmatchedBracketError is raised when a taken skip or loop instruction has
// no partner inside the instruction stream.
type UnmatchedBracketError struct {
	Pos    int
	Symbol rune
	Want   rune
}

func (e *UnmatchedBracketError) Error() string {
	if e.Want == 0 {
		return fmt.Sprintf("%v: no partner for %q at %d", ErrUnmatchedBracket, e.Symbol, e.Pos)
	}
	return fmt.Sprintf("%v: no matching %q for %q at %d", ErrUnmatchedBracket, e.Want, e.Symbol, e.Pos)
}

func (e *UnmatchedBracketError) Is(target error) bool {
	return target == ErrUnmatchedBracket
}
