package hwl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Config controls which variant an Engine runs and its execution bounds.
type Config struct {
	// Variant names a catalog entry; empty selects the catalog default.
	Variant string
	// Catalog defaults to DefaultCatalog.
	Catalog *Catalog
	// StepQuota caps executed instructions per run; zero means unlimited.
	StepQuota int
	Logger    *slog.Logger
}

// Engine assembles and runs programs for one variant. The variant is fixed
// for the lifetime of the engine.
type Engine struct {
	variant   Variant
	stepQuota int
	logger    *slog.Logger
}

// NewEngine resolves the configured variant.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.StepQuota < 0 {
		cfg.StepQuota = 0
	}
	v, err := cfg.Catalog.Lookup(cfg.Variant)
	if err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		variant:   v,
		stepQuota: cfg.StepQuota,
		logger:    cfg.Logger.With("variant", v.Name),
	}, nil
}

// Variant returns the configuration the engine was built with.
func (e *Engine) Variant() Variant { return e.variant }

// Assemble builds the program for caller code. Tape variants append code to
// the preamble verbatim without validating it; canned variants accept only
// empty code.
func (e *Engine) Assemble(code string) (Program, error) {
	switch e.variant.Mode {
	case ModeTape:
		source := e.variant.Preamble + code
		ops := e.variant.Alphabet.Decode(source)
		prog := &TapeProgram{
			Source:     source,
			ops:        ops,
			jumps:      buildJumps(ops),
			alphabet:   e.variant.Alphabet,
			tapeLength: e.variant.TapeLength,
			stepQuota:  e.stepQuota,
			logger:     e.logger,
		}
		e.logger.Debug("assembled program", "mode", e.variant.Mode.String(), "instructions", len(ops), "caller_code", len(code))
		return prog, nil
	case ModeCanned:
		if code != "" {
			return nil, ErrUnsupportedCode
		}
		e.logger.Debug("assembled program", "mode", e.variant.Mode.String())
		return &CannedProgram{Message: e.variant.Message}, nil
	default:
		return nil, fmt.Errorf("%w %q: unknown mode %v", ErrInvalidVariant, e.variant.Name, e.variant.Mode)
	}
}

// Run assembles code and executes it, writing program output to w.
func (e *Engine) Run(ctx context.Context, code string, w io.Writer) (Result, error) {
	prog, err := e.Assemble(code)
	if err != nil {
		return Result{}, err
	}
	return prog.Run(ctx, w)
}
