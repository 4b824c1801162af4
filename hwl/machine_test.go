package hwl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

const miniCatalog = `
default = "mini"

[variants.mini]
mode = "tape"
tape_length = 3
preamble = "#"

[variants.mini.alphabet]
">" = "move-right"
"<" = "move-left"
"+" = "increment"
"-" = "decrement"
"." = "output"
"0" = "reset-cell"
"[" = "skip-if-zero"
"]" = "loop-if-nonzero"
"r" = "restart"
"x" = "terminate"
`

func newMiniEngine(t *testing.T, quota int) *Engine {
	t.Helper()
	cat, err := ParseCatalog([]byte(miniCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	engine, err := NewEngine(Config{Catalog: cat, StepQuota: quota})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func runMini(t *testing.T, code string) (*Machine, []byte) {
	t.Helper()
	prog, err := newMiniEngine(t, 0).Assemble(code)
	if err != nil {
		t.Fatalf("assemble %q: %v", code, err)
	}
	var out bytes.Buffer
	m, err := prog.(*TapeProgram).Machine(&out)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	if _, err := m.Run(context.Background()); err != nil {
		t.Fatalf("run %q: %v", code, err)
	}
	return m, out.Bytes()
}

func TestMachineInitialState(t *testing.T) {
	prog, err := newMiniEngine(t, 0).Assemble("+")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	m, err := prog.(*TapeProgram).Machine(new(bytes.Buffer))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	state := m.State()
	if state.PC != 0 || state.Pointer != 0 || state.Halted {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if !bytes.Equal(state.Tape, []byte{0, 0, 0}) {
		t.Fatalf("expected zeroed tape, got %v", state.Tape)
	}
}

func TestMachinePointerWraps(t *testing.T) {
	m, _ := runMini(t, "<")
	if m.Tape().Pointer() != 2 {
		t.Fatalf("expected pointer 2, got %d", m.Tape().Pointer())
	}
	m, _ = runMini(t, ">>>")
	if m.Tape().Pointer() != 0 {
		t.Fatalf("expected pointer 0 after full lap, got %d", m.Tape().Pointer())
	}
}

func TestMachineCellWraps(t *testing.T) {
	m, _ := runMini(t, "-")
	if m.Tape().Cell() != 255 {
		t.Fatalf("expected 255, got %d", m.Tape().Cell())
	}
	m, _ = runMini(t, "-+")
	if m.Tape().Cell() != 0 {
		t.Fatalf("expected 0, got %d", m.Tape().Cell())
	}
}

func TestMachineLoops(t *testing.T) {
	m, _ := runMini(t, "+++[-]")
	if m.Tape().Cell() != 0 {
		t.Fatalf("expected loop to clear cell, got %d", m.Tape().Cell())
	}

	m, _ = runMini(t, "[>+<]")
	if got := m.Tape().Snapshot(); !bytes.Equal(got, []byte{0, 0, 0}) {
		t.Fatalf("expected skipped loop body, got %v", got)
	}

	m, _ = runMini(t, "++[>++[>+<-]<-]")
	if got := m.Tape().Snapshot(); !bytes.Equal(got, []byte{0, 0, 4}) {
		t.Fatalf("unexpected nested loop tape %v", got)
	}
	if m.Tape().Pointer() != 0 {
		t.Fatalf("expected pointer 0, got %d", m.Tape().Pointer())
	}
}

func TestMachineOutputAndReset(t *testing.T) {
	m, out := runMini(t, "++++++++[>++++++++<-]>+.+.0")
	if string(out) != "AB" {
		t.Fatalf("expected AB, got %q", out)
	}
	if m.Tape().Cell() != 0 {
		t.Fatalf("expected reset cell, got %d", m.Tape().Cell())
	}
}

func TestMachineUnknownCharactersAreNoOps(t *testing.T) {
	m, out := runMini(t, "a+b c\t+é")
	if len(out) != 0 {
		t.Fatalf("unexpected output %q", out)
	}
	if m.Tape().Cell() != 2 {
		t.Fatalf("expected cell 2, got %d", m.Tape().Cell())
	}
	state := m.State()
	if !state.Halted || state.PC != 9 {
		t.Fatalf("expected halted at pc 9, got %+v", state)
	}
}

func TestMachineTerminateStopsEarly(t *testing.T) {
	prog, err := newMiniEngine(t, 0).Assemble("+x+++")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	m, err := prog.(*TapeProgram).Machine(new(bytes.Buffer))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Halt != HaltTerminate {
		t.Fatalf("expected terminate halt, got %v", res.Halt)
	}
	if m.Tape().Cell() != 1 {
		t.Fatalf("expected cell 1, got %d", m.Tape().Cell())
	}
}

func TestMachineStep(t *testing.T) {
	prog, err := newMiniEngine(t, 0).Assemble("+.")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	var out bytes.Buffer
	m, err := prog.(*TapeProgram).Machine(&out)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	steps := 0
	for {
		running, err := m.Step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if !running {
			break
		}
		steps++
	}
	if steps != 3 {
		t.Fatalf("expected 3 steps, got %d", steps)
	}
	if !bytes.Equal(out.Bytes(), []byte{1}) {
		t.Fatalf("unexpected output %v", out.Bytes())
	}
	if state := m.State(); !state.Halted || state.PC != 3 {
		t.Fatalf("unexpected final state %+v", state)
	}
	if running, err := m.Step(); running || err != nil {
		t.Fatalf("halted machine stepped: %v %v", running, err)
	}
}

func TestMachineUnmatchedSkip(t *testing.T) {
	engine := newMiniEngine(t, 0)
	var out bytes.Buffer
	_, err := engine.Run(context.Background(), "+.-[", &out)
	if !errors.Is(err, ErrUnmatchedBracket) {
		t.Fatalf("expected unmatched bracket, got %v", err)
	}
	var ube *UnmatchedBracketError
	if !errors.As(err, &ube) {
		t.Fatalf("expected UnmatchedBracketError, got %T", err)
	}
	if ube.Pos != 4 || ube.Symbol != '[' || ube.Want != ']' {
		t.Fatalf("unexpected error detail %+v", ube)
	}
	if !bytes.Equal(out.Bytes(), []byte{1}) {
		t.Fatalf("expected partial output to be kept, got %v", out.Bytes())
	}
}

func TestMachineUnmatchedLoop(t *testing.T) {
	_, err := newMiniEngine(t, 0).Run(context.Background(), "+]", new(bytes.Buffer))
	var ube *UnmatchedBracketError
	if !errors.As(err, &ube) {
		t.Fatalf("expected UnmatchedBracketError, got %v", err)
	}
	if ube.Symbol != ']' || ube.Want != '[' {
		t.Fatalf("unexpected error detail %+v", ube)
	}
}

func TestMachineHaltsAfterFailure(t *testing.T) {
	prog, err := newMiniEngine(t, 0).Assemble("+.]+")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	var out bytes.Buffer
	m, err := prog.(*TapeProgram).Machine(&out)
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	failures := 0
	for i := 0; i < 5; i++ {
		running, err := m.Step()
		if err != nil {
			if !errors.Is(err, ErrUnmatchedBracket) {
				t.Fatalf("unexpected error %v", err)
			}
			failures++
		}
		if running && failures > 0 {
			t.Fatalf("machine kept running after failure")
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one failure, got %d", failures)
	}
	state := m.State()
	if !state.Halted || state.PC != 3 {
		t.Fatalf("expected halted at pc 3, got %+v", state)
	}
	if !bytes.Equal(state.Tape, []byte{1, 0, 0}) {
		t.Fatalf("failed instruction should not re-run, tape %v", state.Tape)
	}
	res, err := m.Run(context.Background())
	if err != nil || res.Halt != HaltError {
		t.Fatalf("run on failed machine: %+v %v", res, err)
	}
}

func TestMachineQuotaFailureHalts(t *testing.T) {
	prog, err := newMiniEngine(t, 5).Assemble("+r")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	m, err := prog.(*TapeProgram).Machine(new(bytes.Buffer))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	res, err := m.Run(context.Background())
	if !errors.Is(err, ErrStepQuotaExceeded) {
		t.Fatalf("expected step quota error, got %v", err)
	}
	if res.Halt != HaltError || !m.State().Halted {
		t.Fatalf("expected error halt, got %+v", res)
	}
	if running, err := m.Step(); running || err != nil {
		t.Fatalf("halted machine stepped: %v %v", running, err)
	}
}

func TestMachineOutputIsVisibleWhileRunning(t *testing.T) {
	engine, err := NewEngine(Config{Variant: "classic"})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pr, pw := io.Pipe()
	defer pr.Close()

	done := make(chan error, 1)
	go func() {
		_, err := engine.Run(ctx, "l!?", pw)
		pw.Close()
		done <- err
	}()

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, len("Hello,World!"))
		n, _ := io.ReadFull(pr, buf)
		got <- string(buf[:n])
	}()

	select {
	case s := <-got:
		if s != "Hello,World!" {
			t.Fatalf("unexpected output %q", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("greeting not visible while the program loops")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancellation")
	}
}

func TestMachineUntakenUnmatchedBracketIsHarmless(t *testing.T) {
	m, _ := runMini(t, "]+[-]-[")
	if m.Tape().Cell() != 255 {
		t.Fatalf("expected cell 255, got %d", m.Tape().Cell())
	}
	_, err := newMiniEngine(t, 0).Run(context.Background(), "-[", new(bytes.Buffer))
	if err != nil {
		t.Fatalf("skip over non-zero cell should not scan: %v", err)
	}
}

func TestMachineRestartHitsStepQuota(t *testing.T) {
	engine := newMiniEngine(t, 100)
	var out bytes.Buffer
	res, err := engine.Run(context.Background(), "+.r", &out)
	if !errors.Is(err, ErrStepQuotaExceeded) {
		t.Fatalf("expected step quota error, got %v", err)
	}
	if res.Steps != 101 {
		t.Fatalf("expected 101 steps, got %d", res.Steps)
	}
	if out.Len() == 0 || out.Bytes()[0] != 1 {
		t.Fatalf("expected output before quota, got %v", out.Bytes())
	}
}

func TestMachineHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err := newMiniEngine(t, 0).Run(ctx, "+.r", &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %v", out.Bytes())
	}
	if res, _ := newMiniEngine(t, 0).Run(ctx, "+", new(bytes.Buffer)); res.Halt != HaltError {
		t.Fatalf("cancelled run should halt with error, got %v", res.Halt)
	}
}
