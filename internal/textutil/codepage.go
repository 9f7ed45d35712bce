package textutil

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// CodePage identifies the character set used to decode STL text fields.
type CodePage string

const (
	Latin1      CodePage = "latin1"
	ISO88591    CodePage = "iso-8859-1"
	ISO885915   CodePage = "iso-8859-15"
	CP850       CodePage = "cp850"
	CP437       CodePage = "cp437"
	CP860       CodePage = "cp860"
	CP863       CodePage = "cp863"
	CP865       CodePage = "cp865"
	Windows1252 CodePage = "windows-1252"
	UTF8        CodePage = "utf-8"
)

var codePageAliases = map[string]CodePage{
	"latin1":       Latin1,
	"latin-1":      Latin1,
	"iso-8859-1":   ISO88591,
	"iso8859-1":    ISO88591,
	"iso-8859-15":  ISO885915,
	"iso8859-15":   ISO885915,
	"latin9":       ISO885915,
	"cp850":        CP850,
	"850":          CP850,
	"ibm850":       CP850,
	"cp437":        CP437,
	"437":          CP437,
	"cp860":        CP860,
	"860":          CP860,
	"cp863":        CP863,
	"863":          CP863,
	"cp865":        CP865,
	"865":          CP865,
	"windows-1252": Windows1252,
	"cp1252":       Windows1252,
	"utf-8":        UTF8,
	"utf8":         UTF8,
}

// ParseCodePage resolves a configured code page name.
func ParseCodePage(name string) (CodePage, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Latin1, nil
	}
	if cp, ok := codePageAliases[key]; ok {
		return cp, nil
	}
	return "", fmt.Errorf("code page: unsupported value %q", name)
}

// CodePages lists the canonical names accepted by ParseCodePage.
func CodePages() []CodePage {
	return []CodePage{Latin1, ISO88591, ISO885915, CP850, CP437, CP860, CP863, CP865, Windows1252, UTF8}
}

func (c CodePage) singleByte() *charmap.Charmap {
	switch c {
	case ISO885915:
		return charmap.ISO8859_15
	case CP850:
		return charmap.CodePage850
	case CP437:
		return charmap.CodePage437
	case CP860:
		return charmap.CodePage860
	case CP863:
		return charmap.CodePage863
	case CP865:
		return charmap.CodePage865
	case Windows1252:
		return charmap.Windows1252
	default:
		return charmap.ISO8859_1
	}
}

// Decode converts raw bytes to NFC-normalised text. It never fails; invalid
// UTF-8 becomes U+FFFD.
//
// Under single-byte code pages the bytes 0x80-0x9F are EBU control codes
// whatever glyphs the page assigns them, so they decode to the C1 control
// rune of the same value (0x8A to U+008A, 0x8F to U+008F) where the artifact
// table and the control filter of Clean can see them.
func (c CodePage) Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if c == UTF8 {
		decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
		if err != nil {
			decoded = []byte(strings.ToValidUTF8(string(raw), "\uFFFD"))
		}
		return norm.NFC.String(string(decoded))
	}

	cm := c.singleByte()
	var b strings.Builder
	b.Grow(len(raw) * 2)
	for _, by := range raw {
		if isEBUControl(by) {
			b.WriteRune(rune(by))
			continue
		}
		b.WriteRune(cm.DecodeByte(by))
	}
	return norm.NFC.String(b.String())
}

func isEBUControl(b byte) bool {
	return b <= 0x1f || b == 0x7f || (b >= 0x80 && b <= 0x9f)
}

func (c CodePage) String() string {
	return string(c)
}
