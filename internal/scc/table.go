package scc

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"stl2scc/internal/caption"
)

// Control names a miscellaneous control code.
type Control string

const (
	RCL Control = "RCL" // resume caption loading
	BS  Control = "BS"  // backspace
	DER Control = "DER" // delete to end of row
	RU2 Control = "RU2" // roll-up, two rows
	RU3 Control = "RU3" // roll-up, three rows
	RU4 Control = "RU4" // roll-up, four rows
	FON Control = "FON" // flash on
	RDC Control = "RDC" // resume direct captioning
	TR  Control = "TR"  // text restart
	RTD Control = "RTD" // resume text display
	EDM Control = "EDM" // erase displayed memory
	CR  Control = "CR"  // carriage return
	ENM Control = "ENM" // erase non-displayed memory
	EOC Control = "EOC" // end of caption
	TO1 Control = "TO1" // tab offset one column
	TO2 Control = "TO2"
	TO3 Control = "TO3"
)

// Sequence is the control bracketing for one display mode. LineBreak is
// emitted between lines of the same caption, before the next preamble.
type Sequence struct {
	Open      []Control
	LineBreak []Control
	Close     []Control
}

// Extended is a two byte character that overwrites the previous column, so
// it is sent after a basic Fallback character for decoders that ignore it.
type Extended struct {
	Code     pair
	Fallback rune
}

// Table holds every code the encoder emits, as 7-bit values.
type Table struct {
	Name string
	// Parity applies odd parity on emission. Tables whose codes already
	// carry parity set it to false.
	Parity bool
	// Pad completes a word when a line has an odd character count.
	Pad byte
	// Filler completes a word before a standalone code inside a line.
	Filler    byte
	Basic     map[rune]byte
	Special   map[rune]pair
	Extended  map[rune]Extended
	Controls  map[Control]pair
	Preambles map[int]pair
	Modes     map[caption.DisplayMode]Sequence
}

type glyphKind int

const (
	glyphBasic glyphKind = iota
	glyphSpecial
	glyphExtended
)

type glyph struct {
	kind     glyphKind
	basic    byte
	code     pair
	fallback byte
}

// lookup resolves r exactly, then case-folded, then by its unaccented base
// letter. ok is false when nothing matches.
func (t *Table) lookup(r rune) (glyph, bool) {
	candidates := []rune{r}
	if up := unicode.ToUpper(r); up != r {
		candidates = append(candidates, up)
	}
	if low := unicode.ToLower(r); low != r {
		candidates = append(candidates, low)
	}
	for _, c := range candidates {
		if g, ok := t.exact(c); ok {
			return g, true
		}
	}
	if base := baseLetter(r); base != r {
		return t.lookup(base)
	}
	return glyph{}, false
}

func (t *Table) exact(r rune) (glyph, bool) {
	if b, ok := t.Basic[r]; ok {
		return glyph{kind: glyphBasic, basic: b}, true
	}
	if code, ok := t.Special[r]; ok {
		return glyph{kind: glyphSpecial, code: code}, true
	}
	if ext, ok := t.Extended[r]; ok {
		fallback, ok := t.Basic[ext.Fallback]
		if !ok {
			fallback = t.space()
		}
		return glyph{kind: glyphExtended, code: ext.Code, fallback: fallback}, true
	}
	return glyph{}, false
}

func (t *Table) space() byte {
	if b, ok := t.Basic[' ']; ok {
		return b
	}
	return 0x20
}

// control returns the word for c, or an error naming the missing code.
func (t *Table) control(c Control) (Word, error) {
	p, ok := t.Controls[c]
	if !ok {
		return 0, fmt.Errorf("scc table %s: no code for control %s", t.Name, c)
	}
	return p.word(t.Parity), nil
}

// preamble returns the preamble address code placing the cursor at row with
// a white indent of indent columns (a multiple of four, 0 to 28).
func (t *Table) preamble(row, indent int) (Word, error) {
	base, ok := t.Preambles[row]
	if !ok {
		return 0, fmt.Errorf("scc table %s: no preamble for row %d", t.Name, row)
	}
	if indent < 0 || indent > 28 {
		indent = 0
	}
	lo := base[1] | 0x10 | byte(indent/4)<<1
	return NewWord(base[0], lo, t.Parity), nil
}

// sequence returns the bracketing for mode, falling back to pop-on.
func (t *Table) sequence(mode caption.DisplayMode) Sequence {
	if seq, ok := t.Modes[mode]; ok {
		return seq
	}
	return t.Modes[caption.PopOn]
}

// Validate checks that every control referenced by a mode has a code.
func (t *Table) Validate() error {
	if len(t.Basic) == 0 {
		return fmt.Errorf("scc table %s: basic character set is empty", t.Name)
	}
	if _, ok := t.Modes[caption.PopOn]; !ok {
		return fmt.Errorf("scc table %s: pop-on sequence is required", t.Name)
	}
	for mode, seq := range t.Modes {
		for _, group := range [][]Control{seq.Open, seq.LineBreak, seq.Close} {
			for _, c := range group {
				if _, ok := t.Controls[c]; !ok {
					return fmt.Errorf("scc table %s: %s sequence uses undefined control %s", t.Name, mode, c)
				}
			}
		}
	}
	return nil
}

// baseLetter strips diacritics: é becomes e. Runes without a decomposition
// are returned unchanged.
func baseLetter(r rune) rune {
	decomposed := norm.NFD.String(string(r))
	for _, c := range decomposed {
		return c
	}
	return r
}
