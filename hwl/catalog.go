package hwl

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

//go:embed variants.toml
var defaultCatalogData []byte

// Mode selects how a variant assembles programs.
type Mode int

const (
	// ModeTape appends caller code to the preamble and interprets it.
	ModeTape Mode = iota
	// ModeCanned rejects caller code and prints a fixed message.
	ModeCanned
)

func (m Mode) String() string {
	switch m {
	case ModeTape:
		return "tape"
	case ModeCanned:
		return "canned"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "tape", "":
		return ModeTape, nil
	case "canned":
		return ModeCanned, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// Variant is one interpreter configuration.
type Variant struct {
	Name        string
	Description string
	Mode        Mode
	TapeLength  int
	Alphabet    Alphabet
	Preamble    string
	// Greeting is what the preamble prints on its own.
	Greeting string
	Message  string
}

// Validate checks that the variant can be used to build programs.
func (v Variant) Validate() error {
	switch v.Mode {
	case ModeTape:
		if v.TapeLength <= 0 {
			return fmt.Errorf("%w %q: tape length must be positive, got %d", ErrInvalidVariant, v.Name, v.TapeLength)
		}
		if len(v.Alphabet) == 0 {
			return fmt.Errorf("%w %q: empty alphabet", ErrInvalidVariant, v.Name)
		}
		if v.Preamble == "" {
			return fmt.Errorf("%w %q: empty preamble", ErrInvalidVariant, v.Name)
		}
	case ModeCanned:
		if v.Message == "" {
			return fmt.Errorf("%w %q: empty message", ErrInvalidVariant, v.Name)
		}
	default:
		return fmt.Errorf("%w %q: unknown mode %v", ErrInvalidVariant, v.Name, v.Mode)
	}
	return nil
}

// Catalog is a named set of variants with a default.
type Catalog struct {
	Default  string
	variants map[string]Variant
}

type catalogFile struct {
	Default  string                 `toml:"default"`
	Variants map[string]variantFile `toml:"variants"`
}

type variantFile struct {
	Description string            `toml:"description"`
	Mode        string            `toml:"mode"`
	TapeLength  int               `toml:"tape_length"`
	Preamble    string            `toml:"preamble"`
	Greeting    string            `toml:"greeting"`
	Message     string            `toml:"message"`
	Alphabet    map[string]string `toml:"alphabet"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	cat, err := ParseCatalog(defaultCatalogData)
	if err != nil {
		panic(fmt.Sprintf("hwl: built-in catalog: %v", err))
	}
	return cat
}

// ParseCatalog decodes and validates a TOML variant catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Variants) == 0 {
		return nil, fmt.Errorf("parse catalog: no variants defined")
	}

	cat := &Catalog{
		Default:  file.Default,
		variants: make(map[string]Variant, len(file.Variants)),
	}
	for name, vf := range file.Variants {
		v, err := vf.variant(name)
		if err != nil {
			return nil, err
		}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		cat.variants[name] = v
	}
	if cat.Default == "" {
		cat.Default = cat.Names()[0]
	}
	if _, ok := cat.variants[cat.Default]; !ok {
		return nil, fmt.Errorf("%w %q set as catalog default", ErrUnknownVariant, cat.Default)
	}
	return cat, nil
}

func (vf variantFile) variant(name string) (Variant, error) {
	mode, err := parseMode(vf.Mode)
	if err != nil {
		return Variant{}, fmt.Errorf("%w %q: %v", ErrInvalidVariant, name, err)
	}
	v := Variant{
		Name:        name,
		Description: vf.Description,
		Mode:        mode,
		TapeLength:  vf.TapeLength,
		Preamble:    vf.Preamble,
		Greeting:    vf.Greeting,
		Message:     vf.Message,
	}
	if len(vf.Alphabet) > 0 {
		v.Alphabet = make(Alphabet, len(vf.Alphabet))
		for sym, opName := range vf.Alphabet {
			r, size := utf8.DecodeRuneInString(sym)
			if r == utf8.RuneError || size != len(sym) {
				return Variant{}, fmt.Errorf("%w %q: symbol %q must be a single character", ErrInvalidVariant, name, sym)
			}
			op, err := ParseOp(opName)
			if err != nil {
				return Variant{}, fmt.Errorf("%w %q: symbol %q: %v", ErrInvalidVariant, name, sym, err)
			}
			v.Alphabet[r] = op
		}
	}
	return v, nil
}

// Lookup returns the named variant; an empty name selects the default.
func (c *Catalog) Lookup(name string) (Variant, error) {
	if name == "" {
		name = c.Default
	}
	v, ok := c.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Names lists the variant names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.variants))
}
