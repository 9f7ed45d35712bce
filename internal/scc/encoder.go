package scc

import (
	"fmt"
	"strings"

	"stl2scc/internal/caption"
	"stl2scc/internal/timecode"
)

// Header is the first line of every SCC document.
const Header = "Scenarist_SCC V1.0"

// Columns is the width of the caption grid.
const Columns = 32

// Alignment positions each line horizontally.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
)

// ParseAlignment maps "left" and "center" to an Alignment.
func ParseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	default:
		return AlignLeft, fmt.Errorf("alignment: unsupported value %q", value)
	}
}

func (a Alignment) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// Options control encoding.
type Options struct {
	Table          *Table
	TargetRate     timecode.Rate
	Style          timecode.Style
	DoubleControls bool
	Alignment      Alignment
	ClearAtEnd     bool
}

// DefaultOptions matches common broadcast practice: 29.97 non-drop output,
// doubled control codes, left aligned.
func DefaultOptions() Options {
	return Options{
		Table:          DefaultTable(),
		TargetRate:     timecode.Rate2997,
		Style:          timecode.NonDrop,
		DoubleControls: true,
	}
}

// Block is one output line: a timecode and its code words.
type Block struct {
	Timecode string
	Words    []Word
}

// Line renders the block as it appears in the document.
func (b Block) Line() string {
	codes := make([]string, len(b.Words))
	for i, w := range b.Words {
		codes[i] = w.String()
	}
	return b.Timecode + "\t" + strings.Join(codes, " ")
}

// Encoder turns captions into SCC blocks.
type Encoder struct {
	opts Options
}

// NewEncoder validates the table and fills unset options with defaults.
func NewEncoder(opts Options) (*Encoder, error) {
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, err
	}
	if !opts.TargetRate.Valid() {
		opts.TargetRate = timecode.Rate2997
	}
	return &Encoder{opts: opts}, nil
}

// EncodeCaption returns the block for c, plus a clearing block at the end
// timecode when ClearAtEnd is set.
func (e *Encoder) EncodeCaption(c caption.Caption) ([]Block, error) {
	t := e.opts.Table
	seq := t.sequence(c.Mode)
	w := &wordWriter{table: t, double: e.opts.DoubleControls}

	if err := w.controls(seq.Open); err != nil {
		return nil, err
	}
	for i, line := range c.Lines {
		if i > 0 {
			if err := w.controls(seq.LineBreak); err != nil {
				return nil, err
			}
		}
		if err := e.placeLine(w, c.Mode, i, len(c.Lines), line); err != nil {
			return nil, err
		}
		w.text(line)
	}
	if err := w.controls(seq.Close); err != nil {
		return nil, err
	}

	blocks := []Block{{
		Timecode: c.Start.Convert(e.opts.TargetRate).Format(e.opts.Style),
		Words:    w.words,
	}}
	if e.opts.ClearAtEnd {
		clear := &wordWriter{table: t, double: e.opts.DoubleControls}
		if err := clear.controls([]Control{EDM}); err != nil {
			return nil, err
		}
		blocks = append(blocks, Block{
			Timecode: c.End.Convert(e.opts.TargetRate).Format(e.opts.Style),
			Words:    clear.words,
		})
	}
	return blocks, nil
}

// placeLine emits the preamble and tab offset that put line index of count
// at its row and column. Roll-up lines always land on the base row.
func (e *Encoder) placeLine(w *wordWriter, mode caption.DisplayMode, index, count int, line string) error {
	row := 15
	if mode.RollUpRows() == 0 {
		row = 15 - (count - 1) + index
		if row < 1 {
			row = 1
		}
	}
	column := 0
	if e.opts.Alignment == AlignCenter {
		if width := len([]rune(line)); width < Columns {
			column = (Columns - width) / 2
		}
	}
	pac, err := w.table.preamble(row, column-column%4)
	if err != nil {
		return err
	}
	w.standalone(pac)
	if tab := column % 4; tab > 0 {
		return w.controls([]Control{[]Control{TO1, TO2, TO3}[tab-1]})
	}
	return nil
}

// Encode renders a full SCC document. Caption order is preserved.
func (e *Encoder) Encode(captions []caption.Caption) (string, error) {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	for _, c := range captions {
		blocks, err := e.EncodeCaption(c)
		if err != nil {
			return "", fmt.Errorf("caption %d: %w", c.Index, err)
		}
		for _, block := range blocks {
			b.WriteString(block.Line())
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// wordWriter packs characters two to a word and keeps standalone codes on
// word boundaries.
type wordWriter struct {
	table   *Table
	double  bool
	words   []Word
	pending byte
	held    bool
}

func (w *wordWriter) char(b byte) {
	if !w.held {
		w.pending, w.held = b, true
		return
	}
	w.words = append(w.words, NewWord(w.pending, b, w.table.Parity))
	w.held = false
}

func (w *wordWriter) flush(pad byte) {
	if w.held {
		w.char(pad)
	}
}

func (w *wordWriter) standalone(word Word) {
	w.flush(w.table.Filler)
	w.words = append(w.words, word)
	if w.double {
		w.words = append(w.words, word)
	}
}

func (w *wordWriter) controls(names []Control) error {
	for _, name := range names {
		word, err := w.table.control(name)
		if err != nil {
			return err
		}
		w.standalone(word)
	}
	return nil
}

func (w *wordWriter) text(line string) {
	for _, r := range line {
		g, ok := w.table.lookup(r)
		if !ok {
			w.char(w.table.space())
			continue
		}
		switch g.kind {
		case glyphBasic:
			w.char(g.basic)
		case glyphSpecial:
			w.standalone(g.code.word(w.table.Parity))
		case glyphExtended:
			w.char(g.fallback)
			w.standalone(g.code.word(w.table.Parity))
		}
	}
	w.flush(w.table.Pad)
}
