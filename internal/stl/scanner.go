package stl

import (
	"encoding/binary"
	"iter"
)

// Record is one TTI block. Byte slices alias the scanned buffer.
type Record struct {
	// Index is the zero-based block position after the header.
	Index int
	// Offset is the absolute byte offset of the block in the file.
	Offset int

	SubtitleGroup  byte
	SubtitleNumber uint16
	ExtensionBlock byte
	Cumulative     byte
	Vertical       byte
	Justification  byte
	Comment        bool

	Start []byte
	End   []byte
	Text  []byte
}

// Scanner walks the TTI blocks of a buffer exactly once.
type Scanner struct {
	data     []byte
	layout   Layout
	pos      int
	index    int
	record   Record
	trailing int
	done     bool
}

// NewScanner positions a scanner at the first block after the header. The
// header is assumed to have been validated with ParseHeader.
func NewScanner(data []byte, layout Layout) *Scanner {
	pos := layout.HeaderSize
	if pos > len(data) {
		pos = len(data)
	}
	return &Scanner{data: data, layout: layout, pos: pos}
}

// Scan advances to the next full block. A final block shorter than the stride
// ends the scan without error; its length is reported by Trailing.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	remaining := len(s.data) - s.pos
	if remaining < s.layout.BlockSize {
		s.trailing = remaining
		s.done = true
		s.data = nil
		return false
	}
	block := s.data[s.pos : s.pos+s.layout.BlockSize]
	s.record = s.decode(block)
	s.pos += s.layout.BlockSize
	s.index++
	return true
}

// Record returns the block read by the last successful Scan.
func (s *Scanner) Record() Record {
	return s.record
}

// Trailing returns the size of the incomplete block dropped at the end of the
// buffer. It is only meaningful once Scan has returned false.
func (s *Scanner) Trailing() int {
	return s.trailing
}

// All yields the remaining records. The scanner is consumed.
func (s *Scanner) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for s.Scan() {
			if !yield(s.Record()) {
				return
			}
		}
	}
}

func (s *Scanner) decode(block []byte) Record {
	l := s.layout
	rec := Record{
		Index:  s.index,
		Offset: s.pos,
		Start:  block[l.StartOffset : l.StartOffset+4],
		End:    block[l.EndOffset : l.EndOffset+4],
		Text:   block[l.TextOffset:],
	}
	if l.GroupOffset != Absent {
		rec.SubtitleGroup = block[l.GroupOffset]
	}
	if l.NumberOffset != Absent {
		rec.SubtitleNumber = binary.LittleEndian.Uint16(block[l.NumberOffset : l.NumberOffset+2])
	}
	if l.ExtensionOffset != Absent {
		rec.ExtensionBlock = block[l.ExtensionOffset]
	}
	if l.CumulativeOffset != Absent {
		rec.Cumulative = block[l.CumulativeOffset]
	}
	if l.VerticalOffset != Absent {
		rec.Vertical = block[l.VerticalOffset]
	}
	if l.JustificationOffset != Absent {
		rec.Justification = block[l.JustificationOffset]
	}
	if l.CommentOffset != Absent {
		rec.Comment = block[l.CommentOffset] == 0x01
	}
	return rec
}
