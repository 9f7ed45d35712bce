package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat marks malformed timecode input. Use errors.Is against it; the
// concrete error is a *FormatError.
var ErrFormat = errors.New("malformed timecode")

// FormatError describes a timecode that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrFormat, e.Input, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Encoding selects how the four timecode bytes of an STL record are read.
type Encoding int

const (
	// Binary takes each byte literally (0-255).
	Binary Encoding = iota
	// BCD reads each byte as two decimal nibbles.
	BCD
)

// ParseEncoding maps "binary" and "bcd" to an Encoding.
func ParseEncoding(value string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "binary", "":
		return Binary, nil
	case "bcd":
		return BCD, nil
	default:
		return Binary, fmt.Errorf("timecode encoding: unsupported value %q", value)
	}
}

func (e Encoding) String() string {
	if e == BCD {
		return "bcd"
	}
	return "binary"
}

// Style selects the separator written before the frames field.
type Style int

const (
	NonDrop Style = iota
	DropStyle
)

// ParseStyle maps "nondrop"/"non-drop" and "drop" to a Style.
func ParseStyle(value string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nondrop", "non-drop", "ndf", "":
		return NonDrop, nil
	case "drop", "drop-style", "df":
		return DropStyle, nil
	default:
		return NonDrop, fmt.Errorf("timecode style: unsupported value %q", value)
	}
}

func (s Style) String() string {
	if s == DropStyle {
		return "drop"
	}
	return "nondrop"
}

// Timecode is an immutable hours:minutes:seconds:frames position at Rate.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
	Rate    Rate
}

// New builds a Timecode without normalising its fields.
func New(hours, minutes, seconds, frames int, rate Rate) Timecode {
	return Timecode{Hours: hours, Minutes: minutes, Seconds: seconds, Frames: frames, Rate: rate}
}

// FromBytes decodes a four byte STL timecode field. Binary fields are taken
// as-is, including frame values at or above the rate. BCD fields fail when a
// nibble is not a decimal digit.
func FromBytes(field []byte, rate Rate, enc Encoding) (Timecode, error) {
	if len(field) != 4 {
		return Timecode{}, &FormatError{Reason: fmt.Sprintf("expected 4 bytes, got %d", len(field))}
	}
	var parts [4]int
	for i, b := range field {
		if enc == BCD {
			hi, lo := b>>4, b&0x0f
			if hi > 9 || lo > 9 {
				return Timecode{}, &FormatError{
					Input:  fmt.Sprintf("% x", field),
					Reason: fmt.Sprintf("byte %d (0x%02x) is not valid BCD", i, b),
				}
			}
			parts[i] = int(hi)*10 + int(lo)
			continue
		}
		parts[i] = int(b)
	}
	return New(parts[0], parts[1], parts[2], parts[3], rate), nil
}

// Parse reads "HH:MM:SS:FF" (or "HH:MM:SS;FF") at the given rate.
func Parse(text string, rate Rate) (Timecode, error) {
	trimmed := strings.TrimSpace(text)
	fields := strings.FieldsFunc(trimmed, func(r rune) bool { return r == ':' || r == ';' })
	if len(fields) != 4 || strings.Count(trimmed, ":")+strings.Count(trimmed, ";") != 3 {
		return Timecode{}, &FormatError{Input: text, Reason: "expected four colon-delimited fields"}
	}
	var parts [4]int
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || !allDigits(field) {
			return Timecode{}, &FormatError{Input: text, Reason: fmt.Sprintf("field %d is not numeric", i+1)}
		}
		parts[i] = n
	}
	if parts[1] > 59 || parts[2] > 59 {
		return Timecode{}, &FormatError{Input: text, Reason: "minutes and seconds must be below 60"}
	}
	if nominal := rate.Nominal(); nominal > 0 && int64(parts[3]) >= nominal {
		return Timecode{}, &FormatError{Input: text, Reason: fmt.Sprintf("frames must be below %d", nominal)}
	}
	return New(parts[0], parts[1], parts[2], parts[3], rate), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// FromFrames decomposes an absolute frame count at rate. Negative counts
// clamp to zero and hours wrap at 24.
func FromFrames(total int64, rate Rate) Timecode {
	base := rate.Nominal()
	if base <= 0 || total <= 0 {
		return New(0, 0, 0, 0, rate)
	}
	hours := total / (3600 * base)
	rem := total % (3600 * base)
	minutes := rem / (60 * base)
	rem %= 60 * base
	seconds := rem / base
	frames := rem % base
	return New(int(hours%24), int(minutes), int(seconds), int(frames), rate)
}

// TotalFrames returns the absolute frame count at the timecode's nominal base.
func (t Timecode) TotalFrames() int64 {
	base := t.Rate.Nominal()
	secs := int64(t.Hours)*3600 + int64(t.Minutes)*60 + int64(t.Seconds)
	return secs*base + int64(t.Frames)
}

// Convert rescales the timecode to target. The elapsed frame count is
// multiplied by target/source once and rounded half to even, then split back
// into fields at the target base.
func (t Timecode) Convert(target Rate) Timecode {
	if t.Rate.Equal(target) || !t.Rate.Valid() || !target.Valid() {
		t.Rate = target
		return t
	}
	num := t.TotalFrames() * target.Num * t.Rate.Den
	den := target.Den * t.Rate.Num
	return FromFrames(roundHalfEven(num, den), target)
}

// Sub subtracts offset (converted to t's rate first), clamping at zero.
func (t Timecode) Sub(offset Timecode) Timecode {
	if !offset.Rate.Equal(t.Rate) {
		offset = offset.Convert(t.Rate)
	}
	return FromFrames(t.TotalFrames()-offset.TotalFrames(), t.Rate)
}

// Before reports whether t is earlier than other once both share t's rate.
func (t Timecode) Before(other Timecode) bool {
	if !other.Rate.Equal(t.Rate) {
		other = other.Convert(t.Rate)
	}
	return t.TotalFrames() < other.TotalFrames()
}

// Format renders the timecode with the separator selected by style.
func (t Timecode) Format(style Style) string {
	sep := ':'
	if style == DropStyle {
		sep = ';'
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", t.Hours, t.Minutes, t.Seconds, sep, t.Frames)
}

func (t Timecode) String() string {
	return t.Format(NonDrop)
}

func roundHalfEven(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if num < 0 {
		return -roundHalfEven(-num, den)
	}
	q, r := num/den, num%den
	switch twice := 2 * r; {
	case twice > den:
		q++
	case twice == den && q%2 == 1:
		q++
	}
	return q
}
