package scc

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"stl2scc/internal/caption"
)

// tableFile is the YAML shape of a code table. Codes are written as hex
// strings ("41" for a basic character, "1420" for a two byte code).
type tableFile struct {
	Name      string                  `yaml:"name"`
	Inherit   *bool                   `yaml:"inherit"`
	Parity    *bool                   `yaml:"parity"`
	Pad       string                  `yaml:"pad"`
	Filler    string                  `yaml:"filler"`
	Basic     map[string]string       `yaml:"basic"`
	Special   map[string]string       `yaml:"special"`
	Extended  map[string]extendedFile `yaml:"extended"`
	Controls  map[string]string       `yaml:"controls"`
	Preambles map[int]string          `yaml:"preambles"`
	Modes     map[string]sequenceFile `yaml:"modes"`
}

type extendedFile struct {
	Code     string `yaml:"code"`
	Fallback string `yaml:"fallback"`
}

type sequenceFile struct {
	Open      []string `yaml:"open"`
	LineBreak []string `yaml:"line_break"`
	Close     []string `yaml:"close"`
}

// LoadTable reads a YAML code table from path. Unless the file sets
// inherit: false, its entries are layered over DefaultTable.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read code table: %w", err)
	}
	table, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("code table %s: %w", path, err)
	}
	return table, nil
}

// ParseTable decodes a YAML code table. Unknown keys are rejected.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	table := DefaultTable()
	if file.Inherit != nil && !*file.Inherit {
		table = &Table{
			Name:      "custom",
			Parity:    true,
			Pad:       0x20,
			Basic:     map[rune]byte{},
			Special:   map[rune]pair{},
			Extended:  map[rune]Extended{},
			Controls:  map[Control]pair{},
			Preambles: map[int]pair{},
			Modes:     map[caption.DisplayMode]Sequence{},
		}
	}
	if file.Name != "" {
		table.Name = file.Name
	}
	if file.Parity != nil {
		table.Parity = *file.Parity
	}
	if file.Pad != "" {
		b, err := parseByte(file.Pad)
		if err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
		table.Pad = b
	}
	if file.Filler != "" {
		b, err := parseByte(file.Filler)
		if err != nil {
			return nil, fmt.Errorf("filler: %w", err)
		}
		table.Filler = b
	}

	for key, value := range file.Basic {
		r, err := singleRune(key)
		if err != nil {
			return nil, fmt.Errorf("basic: %w", err)
		}
		b, err := parseByte(value)
		if err != nil {
			return nil, fmt.Errorf("basic %q: %w", key, err)
		}
		table.Basic[r] = b
	}
	for key, value := range file.Special {
		r, err := singleRune(key)
		if err != nil {
			return nil, fmt.Errorf("special: %w", err)
		}
		p, err := parsePair(value)
		if err != nil {
			return nil, fmt.Errorf("special %q: %w", key, err)
		}
		table.Special[r] = p
	}
	for key, value := range file.Extended {
		r, err := singleRune(key)
		if err != nil {
			return nil, fmt.Errorf("extended: %w", err)
		}
		p, err := parsePair(value.Code)
		if err != nil {
			return nil, fmt.Errorf("extended %q: %w", key, err)
		}
		fallback := ' '
		if value.Fallback != "" {
			if fallback, err = singleRune(value.Fallback); err != nil {
				return nil, fmt.Errorf("extended %q fallback: %w", key, err)
			}
		}
		table.Extended[r] = Extended{Code: p, Fallback: fallback}
	}
	for key, value := range file.Controls {
		p, err := parsePair(value)
		if err != nil {
			return nil, fmt.Errorf("control %s: %w", key, err)
		}
		table.Controls[Control(key)] = p
	}
	for row, value := range file.Preambles {
		if row < 1 || row > 15 {
			return nil, fmt.Errorf("preamble row %d out of range 1-15", row)
		}
		p, err := parsePair(value)
		if err != nil {
			return nil, fmt.Errorf("preamble row %d: %w", row, err)
		}
		table.Preambles[row] = p
	}
	for key, value := range file.Modes {
		mode, err := caption.ParseDisplayMode(key)
		if err != nil {
			return nil, err
		}
		table.Modes[mode] = Sequence{
			Open:      controls(value.Open),
			LineBreak: controls(value.LineBreak),
			Close:     controls(value.Close),
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func singleRune(value string) (rune, error) {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError || size != len(value) {
		return 0, fmt.Errorf("key %q must be a single character", value)
	}
	return r, nil
}

func controls(names []string) []Control {
	if len(names) == 0 {
		return nil
	}
	out := make([]Control, len(names))
	for i, name := range names {
		out[i] = Control(name)
	}
	return out
}
