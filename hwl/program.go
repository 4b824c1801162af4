package hwl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Program is an assembled, runnable unit. TapeProgram interprets an
// instruction stream; CannedProgram prints a fixed message.
type Program interface {
	Run(ctx context.Context, w io.Writer) (Result, error)
}

// TapeProgram is a preamble plus caller code, decoded and bracket-matched.
type TapeProgram struct {
	Source     string
	ops        []Op
	jumps      []int
	alphabet   Alphabet
	tapeLength int
	stepQuota  int
	logger     *slog.Logger
}

// Len is the number of instructions in the stream.
func (p *TapeProgram) Len() int { return len(p.ops) }

// Ops returns a copy of the decoded stream.
func (p *TapeProgram) Ops() []Op { return append([]Op(nil), p.ops...) }

// Machine creates a fresh machine for p writing to w.
func (p *TapeProgram) Machine(w io.Writer) (*Machine, error) {
	return NewMachine(p, w)
}

// Run executes the program on a fresh machine.
func (p *TapeProgram) Run(ctx context.Context, w io.Writer) (Result, error) {
	m, err := p.Machine(w)
	if err != nil {
		return Result{}, err
	}
	return m.Run(ctx)
}

// CannedProgram writes Message without any tape interpretation.
type CannedProgram struct {
	Message string
}

// Run writes the message; there is no tape to interpret.
func (p *CannedProgram) Run(ctx context.Context, w io.Writer) (Result, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}
	if _, err := io.WriteString(w, p.Message); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}
	return Result{Halt: HaltEnd}, nil
}
