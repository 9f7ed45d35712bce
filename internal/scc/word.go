package scc

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Word is one transmitted two-byte code as it appears in the file.
type Word uint16

// NewWord packs two bytes, applying odd parity when parity is set.
func NewWord(hi, lo byte, parity bool) Word {
	if parity {
		hi, lo = oddParity(hi), oddParity(lo)
	}
	return Word(uint16(hi)<<8 | uint16(lo))
}

func (w Word) String() string {
	return fmt.Sprintf("%04x", uint16(w))
}

// Bytes returns the high and low byte.
func (w Word) Bytes() (byte, byte) {
	return byte(w >> 8), byte(w)
}

// oddParity sets bit 7 so the byte carries an odd number of one bits.
func oddParity(b byte) byte {
	b &= 0x7f
	if bits.OnesCount8(b)%2 == 0 {
		b |= 0x80
	}
	return b
}

// pair is a 7-bit two byte code as stored in a Table.
type pair [2]byte

func (p pair) word(parity bool) Word {
	return NewWord(p[0], p[1], parity)
}

// parsePair reads a four hex digit code such as "1420".
func parsePair(value string) (pair, error) {
	value = strings.TrimSpace(value)
	if len(value) != 4 {
		return pair{}, fmt.Errorf("code %q: expected four hex digits", value)
	}
	n, err := strconv.ParseUint(value, 16, 16)
	if err != nil {
		return pair{}, fmt.Errorf("code %q: %w", value, err)
	}
	return pair{byte(n >> 8), byte(n)}, nil
}

// parseByte reads a two hex digit code such as "41".
func parseByte(value string) (byte, error) {
	value = strings.TrimSpace(value)
	if len(value) != 2 {
		return 0, fmt.Errorf("code %q: expected two hex digits", value)
	}
	n, err := strconv.ParseUint(value, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("code %q: %w", value, err)
	}
	return byte(n), nil
}
