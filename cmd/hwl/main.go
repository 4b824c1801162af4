package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mgomes/hwl/hwl"
)

const (
	envVariant  = "HWL_VARIANT"
	envLogLevel = "HWL_LOG_LEVEL"
)

var errorColor = lipgloss.Color("#EF4444")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runCLI(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	stop()
	if err != nil {
		printDiagnostic(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) > 1 {
		switch args[1] {
		case "help", "-h", "--help":
			printUsage(stderr)
			return nil
		default:
			return fmt.Errorf("invalid command %q (see %s help)", args[1], filepath.Base(args[0]))
		}
	}
	return run(ctx, stdin, stdout, stderr, getenv)
}

// run reads one line of caller code and executes it under the configured
// variant. Nothing executes when the line cannot be read.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	logger, err := newLogger(stderr, getenv(envLogLevel))
	if err != nil {
		return err
	}
	engine, err := hwl.NewEngine(hwl.Config{
		Variant: getenv(envVariant),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	code, err := readCode(stdin, stderr)
	if err != nil {
		return err
	}
	_, err = engine.Run(ctx, code, stdout)
	return err
}

func readCode(stdin io.Reader, stderr io.Writer) (string, error) {
	var (
		line string
		err  error
	)
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		line, err = promptLine(f, stderr)
	} else {
		line, err = readLine(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", hwl.ErrInputRead, err)
	}
	return strings.TrimSpace(line), nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

// newLogger discards everything unless a level is set, so stderr carries only
// the diagnostic line by default.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	if level == "" {
		return slog.New(slog.DiscardHandler), nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid %s %q", envLogLevel, level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// printDiagnostic writes err as a single line.
func printDiagnostic(w io.Writer, err error) {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(errorColor)
	fmt.Fprintln(w, style.Render("error: "+msg))
}

func printUsage(w io.Writer) {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage: %s\n", prog)
	fmt.Fprintln(w, "Reads one line of code from stdin, appends it to the greeting preamble, and runs it.")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s\n", envVariant)
	cat := hwl.DefaultCatalog()
	fmt.Fprintf(w, "    interpreter variant: %s (default %q)\n", strings.Join(cat.Names(), ", "), cat.Default)
	fmt.Fprintf(w, "  %s\n", envLogLevel)
	fmt.Fprintln(w, "    log level written to stderr: debug, info, warn, error")
}
