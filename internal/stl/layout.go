package stl

import (
	"fmt"
	"sort"
	"strings"
)

// Absent marks an optional field that a layout does not carry.
const Absent = -1

// Layout describes where each field lives in the header and in a TTI block.
// All offsets are relative to the start of the header or of the block.
type Layout struct {
	Name            string
	HeaderSize      int
	BlockSize       int
	Signature       string
	SignatureOffset int

	StartOffset int
	EndOffset   int
	TextOffset  int

	GroupOffset         int
	NumberOffset        int
	ExtensionOffset     int
	CumulativeOffset    int
	VerticalOffset      int
	JustificationOffset int
	CommentOffset       int
}

// EBU is the layout defined by EBU Tech 3264: a 1024 byte GSI block and 128
// byte TTI blocks with the text field at offset 16.
var EBU = Layout{
	Name:                "ebu",
	HeaderSize:          1024,
	BlockSize:           128,
	Signature:           "STL",
	SignatureOffset:     3,
	StartOffset:         5,
	EndOffset:           9,
	TextOffset:          16,
	GroupOffset:         0,
	NumberOffset:        1,
	ExtensionOffset:     3,
	CumulativeOffset:    4,
	VerticalOffset:      13,
	JustificationOffset: 14,
	CommentOffset:       15,
}

// Legacy matches files written by tools that pack both timecodes directly
// after a three byte prefix and start the text at offset 11.
var Legacy = Layout{
	Name:                "legacy",
	HeaderSize:          1024,
	BlockSize:           128,
	Signature:           "STL",
	SignatureOffset:     3,
	StartOffset:         3,
	EndOffset:           7,
	TextOffset:          11,
	GroupOffset:         0,
	NumberOffset:        1,
	ExtensionOffset:     Absent,
	CumulativeOffset:    Absent,
	VerticalOffset:      Absent,
	JustificationOffset: Absent,
	CommentOffset:       Absent,
}

// Compact is the short-header variant: a 32 byte header carrying only the
// code page and disk format code, followed by EBU-shaped blocks.
var Compact = Layout{
	Name:                "compact",
	HeaderSize:          32,
	BlockSize:           128,
	Signature:           "STL",
	SignatureOffset:     3,
	StartOffset:         5,
	EndOffset:           9,
	TextOffset:          16,
	GroupOffset:         0,
	NumberOffset:        1,
	ExtensionOffset:     3,
	CumulativeOffset:    4,
	VerticalOffset:      13,
	JustificationOffset: 14,
	CommentOffset:       15,
}

var layouts = map[string]Layout{
	EBU.Name:     EBU,
	Legacy.Name:  Legacy,
	Compact.Name: Compact,
}

// LookupLayout returns a named built-in layout.
func LookupLayout(name string) (Layout, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return EBU, nil
	}
	layout, ok := layouts[key]
	if !ok {
		return Layout{}, fmt.Errorf("stl layout: unknown layout %q (known: %s)", name, strings.Join(LayoutNames(), ", "))
	}
	return layout, nil
}

// LayoutNames lists the built-in layout names in sorted order.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every field fits inside its block.
func (l Layout) Validate() error {
	if l.HeaderSize < 0 {
		return fmt.Errorf("stl layout %s: header size must not be negative", l.Name)
	}
	if l.BlockSize <= 0 {
		return fmt.Errorf("stl layout %s: block size must be positive", l.Name)
	}
	if l.Signature != "" && (l.SignatureOffset < 0 || l.SignatureOffset+len(l.Signature) > l.HeaderSize) {
		return fmt.Errorf("stl layout %s: signature does not fit in the header", l.Name)
	}
	if err := l.checkField("start timecode", l.StartOffset, 4); err != nil {
		return err
	}
	if err := l.checkField("end timecode", l.EndOffset, 4); err != nil {
		return err
	}
	if l.TextOffset < 0 || l.TextOffset >= l.BlockSize {
		return fmt.Errorf("stl layout %s: text offset %d outside block", l.Name, l.TextOffset)
	}
	optional := []struct {
		name   string
		offset int
		size   int
	}{
		{"subtitle group", l.GroupOffset, 1},
		{"subtitle number", l.NumberOffset, 2},
		{"extension block", l.ExtensionOffset, 1},
		{"cumulative status", l.CumulativeOffset, 1},
		{"vertical position", l.VerticalOffset, 1},
		{"justification", l.JustificationOffset, 1},
		{"comment flag", l.CommentOffset, 1},
	}
	for _, f := range optional {
		if f.offset == Absent {
			continue
		}
		if err := l.checkField(f.name, f.offset, f.size); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) checkField(name string, offset, size int) error {
	if offset < 0 || offset+size > l.BlockSize {
		return fmt.Errorf("stl layout %s: %s at %d does not fit in a %d byte block", l.Name, name, offset, l.BlockSize)
	}
	return nil
}
