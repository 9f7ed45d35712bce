package textutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultArtifacts returns the runes produced by decoding EBU control bytes
// and padding. A value of " " replaces the glyph with a
// space; an empty value drops it.
func DefaultArtifacts() map[string]string {
	return map[string]string{
		"\u008a": " ", // EBU CR/LF
		"\u008f": "",  // EBU unused space
		"ÿ":      "",  // 0xFF padding decoded as Latin-1
		"\ufffd": "",  // undecodable input
	}
}

// Sanitizer strips control bytes and code-page artifacts from decoded text.
type Sanitizer struct {
	artifacts map[rune]string
}

// NewSanitizer builds a Sanitizer from an artifact table whose keys are single
// glyphs and whose values are "" (drop) or " " (replace with space). A nil
// table uses DefaultArtifacts.
func NewSanitizer(artifacts map[string]string) (*Sanitizer, error) {
	if artifacts == nil {
		artifacts = DefaultArtifacts()
	}
	table := make(map[rune]string, len(artifacts))
	for glyph, replacement := range artifacts {
		r, size := utf8.DecodeRuneInString(glyph)
		if size == 0 || size != len(glyph) {
			return nil, fmt.Errorf("sanitize artifact %q: must be exactly one character", glyph)
		}
		if unicode.IsSpace(r) {
			return nil, fmt.Errorf("sanitize artifact %q: whitespace cannot be an artifact", glyph)
		}
		if replacement != "" && replacement != " " {
			return nil, fmt.Errorf("sanitize artifact %q: replacement must be empty or a single space", glyph)
		}
		table[r] = replacement
	}
	return &Sanitizer{artifacts: table}, nil
}

// Sanitize decodes raw under cp and cleans the result. An empty return means
// the input carried no displayable text.
func (s *Sanitizer) Sanitize(raw []byte, cp CodePage) string {
	return s.Clean(cp.Decode(raw))
}

// Clean applies the artifact table, removes control and non-printable runes,
// and collapses whitespace. Combining marks left without a base by a removal
// are removed with it.
func (s *Sanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	orphaned := false
	for _, r := range text {
		if replacement, ok := s.artifact(r); ok {
			b.WriteString(replacement)
			orphaned = replacement == ""
			continue
		}
		switch {
		case isBlank(r):
			b.WriteByte(' ')
			orphaned = false
		case isControl(r) || !unicode.IsGraphic(r):
			orphaned = true
		case orphaned && unicode.Is(unicode.Mn, r):
		default:
			b.WriteRune(r)
			orphaned = false
		}
	}
	// Removals can leave composable runs adjacent; recompose so a second
	// pass is a no-op.
	return norm.NFC.String(strings.Join(strings.Fields(b.String()), " "))
}

func (s *Sanitizer) artifact(r rune) (string, bool) {
	if s == nil || s.artifacts == nil {
		return "", false
	}
	replacement, ok := s.artifacts[r]
	return replacement, ok
}

// isBlank treats the ASCII whitespace controls as word separators so that
// tab or newline separated words do not merge once controls are removed.
func isBlank(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return unicode.IsSpace(r) && !isControl(r)
}

func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}
