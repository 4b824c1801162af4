package hwl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// HaltReason records why a machine stopped.
type HaltReason int

const (
	HaltNone HaltReason = iota
	HaltEnd
	HaltTerminate
	HaltError
)

func (h HaltReason) String() string {
	switch h {
	case HaltEnd:
		return "end of stream"
	case HaltTerminate:
		return "terminate"
	case HaltError:
		return "error"
	default:
		return "running"
	}
}

// Result summarises a finished run.
type Result struct {
	Halt  HaltReason
	Steps int
	PC    int
}

// State is a snapshot of a machine: Running(pc, pointer, tape) or Halted.
type State struct {
	PC      int
	Pointer int
	Tape    []byte
	Halted  bool
}

const cancelCheckInterval = 1024

// Machine executes a decoded instruction stream against one tape. A machine
// is single-use and not safe for concurrent use.
type Machine struct {
	prog   *TapeProgram
	tape   *Tape
	out    io.Writer
	buf    [1]byte
	pc     int
	steps  int
	quota  int
	halt   HaltReason
	logger *slog.Logger
}

// NewMachine prepares a machine in its initial state: PC 0, pointer 0, and a
// zeroed tape.
func NewMachine(prog *TapeProgram, w io.Writer) (*Machine, error) {
	tape, err := NewTape(prog.tapeLength)
	if err != nil {
		return nil, err
	}
	logger := prog.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		prog:   prog,
		tape:   tape,
		out:    w,
		quota:  prog.stepQuota,
		logger: logger,
	}, nil
}

// Tape returns the live tape.
func (m *Machine) Tape() *Tape { return m.tape }

// State snapshots the machine. A machine that failed is Halted.
func (m *Machine) State() State {
	return State{
		PC:      m.pc,
		Pointer: m.tape.Pointer(),
		Tape:    m.tape.Snapshot(),
		Halted:  m.halt != HaltNone,
	}
}

// Run executes until the machine halts or fails. Every output byte reaches
// the writer as its instruction executes.
func (m *Machine) Run(ctx context.Context) (Result, error) {
	for {
		if ctx != nil && m.halt == HaltNone && m.steps%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				m.halt = HaltError
				return m.result(), ctx.Err()
			default:
			}
		}
		running, err := m.Step()
		if err != nil {
			return m.result(), err
		}
		if !running {
			m.logger.Debug("halted", "reason", m.halt.String(), "steps", m.steps, "pc", m.pc)
			return m.result(), nil
		}
	}
}

// Step executes one instruction and reports whether the machine is still
// running. Once halted, by completion or by an error, Step does nothing.
func (m *Machine) Step() (bool, error) {
	running, err := m.exec()
	if err != nil {
		m.halt = HaltError
		return false, err
	}
	return running, nil
}

func (m *Machine) result() Result {
	return Result{Halt: m.halt, Steps: m.steps, PC: m.pc}
}

func (m *Machine) exec() (bool, error) {
	if m.halt != HaltNone {
		return false, nil
	}
	ops := m.prog.ops
	if m.pc >= len(ops) {
		m.halt = HaltEnd
		return false, nil
	}
	m.steps++
	if m.quota > 0 && m.steps > m.quota {
		return false, fmt.Errorf("%w (%d)", ErrStepQuotaExceeded, m.quota)
	}

	switch ops[m.pc] {
	case OpRight:
		m.tape.Right()
	case OpLeft:
		m.tape.Left()
	case OpInc:
		m.tape.Inc()
	case OpDec:
		m.tape.Dec()
	case OpOutput:
		m.buf[0] = m.tape.Cell()
		if _, err := m.out.Write(m.buf[:]); err != nil {
			return false, fmt.Errorf("write output: %w", err)
		}
	case OpReset:
		m.tape.Reset()
	case OpSkip:
		if m.tape.Cell() == 0 {
			target, err := m.partner(OpLoop)
			if err != nil {
				return false, err
			}
			m.pc = target
		}
	case OpLoop:
		if m.tape.Cell() != 0 {
			target, err := m.partner(OpSkip)
			if err != nil {
				return false, err
			}
			m.pc = target
		}
	case OpRestart:
		m.pc = 0
		return true, nil
	case OpHalt:
		m.halt = HaltTerminate
		return false, nil
	}
	m.pc++
	return true, nil
}

func (m *Machine) partner(want Op) (int, error) {
	target := m.prog.jumps[m.pc]
	if target == unmatched {
		return 0, &UnmatchedBracketError{
			Pos:    m.pc,
			Symbol: m.prog.alphabet.Symbol(m.prog.ops[m.pc]),
			Want:   m.prog.alphabet.Symbol(want),
		}
	}
	return target, nil
}
