package textutil

import (
	"math/rand"
	"testing"
)

func TestSanitizeLatin1(t *testing.T) {
	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain", []byte("HELLO"), "HELLO"},
		{"ebu padding", append([]byte("HELLO"), 0x8f, 0x8f, 0x8f), "HELLO"},
		{"ebu line break", []byte("HELLO\x8aWORLD"), "HELLO WORLD"},
		{"control bytes", []byte("\x00\x01HI\x1f\x7f"), "HI"},
		{"c1 range", []byte("A\x80\x85\x9fB"), "AB"},
		{"ff padding", []byte("OK\xff\xff"), "OK"},
		{"whitespace runs", []byte("  A \t\t B  "), "A B"},
		{"accent kept", []byte("caf\xe9"), "café"},
		{"only controls", []byte{0x00, 0x8f, 0x8f, 0x0d}, ""},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.raw, Latin1); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeCodePages(t *testing.T) {
	s, err := NewSanitizer(map[string]string{})
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	tests := []struct {
		cp   CodePage
		raw  []byte
		want string
	}{
		{CP850, []byte{0xa0}, "á"},
		{CP437, []byte{0xa4}, "ñ"},
		{ISO885915, []byte{0xa4}, "€"},
		{ISO88591, []byte{0xa4}, "¤"},
		{Windows1252, []byte{0xe9}, "é"},
		{UTF8, []byte("na\xc3\xafve"), "naïve"},
		{UTF8, []byte("bad\xffbyte"), "bad\ufffdbyte"},
	}
	for _, tt := range tests {
		if got := s.Sanitize(tt.raw, tt.cp); got != tt.want {
			t.Fatalf("Sanitize(%q, %s) = %q, want %q", tt.raw, tt.cp, got, tt.want)
		}
	}
}

func TestSanitizeSingleByteCodePagesTreatC1AsControls(t *testing.T) {
	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	padded := append([]byte("HELLO\x8aWORLD"), 0x8f, 0x8f, 0x8f, 0x8f)
	for _, cp := range []CodePage{Latin1, ISO885915, CP850, CP437, CP860, CP863, CP865, Windows1252} {
		t.Run(string(cp), func(t *testing.T) {
			if got := s.Sanitize(padded, cp); got != "HELLO WORLD" {
				t.Fatalf("Sanitize = %q, want %q", got, "HELLO WORLD")
			}
			if got := s.Sanitize([]byte{0x8f, 0x8f, 0x80, 0x9f, 0x00, 0x7f}, cp); got != "" {
				t.Fatalf("padding-only slot = %q, want empty", got)
			}
		})
	}
}

func TestDecodeMapsEBUControlBytesToC1(t *testing.T) {
	if got := CP850.Decode([]byte{'A', 0x8a, 0x8f, 'B'}); got != "A\u008a\u008fB" {
		t.Fatalf("Decode = %q", got)
	}
	if got := CP850.Decode([]byte{0xa0}); got != "á" {
		t.Fatalf("Decode(0xa0) = %q", got)
	}
}

func TestSanitizeUTF8DropsReplacementWithDefaults(t *testing.T) {
	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	if got := s.Sanitize([]byte("bad\xffbyte"), UTF8); got != "badbyte" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeNormalisesCombiningMarks(t *testing.T) {
	s, _ := NewSanitizer(nil)
	if got := s.Sanitize([]byte("e\xcc\x81t\xc3\xa9"), UTF8); got != "été" {
		t.Fatalf("got %q", got)
	}
	// A mark orphaned by a dropped control must not attach to the previous letter.
	if got := s.Clean("e\x01\u0301x"); got != "ex" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	s, err := NewSanitizer(nil)
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	for _, raw := range []string{"ᄀ\x01ᅡ", "e\x8f\u0301", "A\x00\u030a"} {
		once := s.Sanitize([]byte(raw), UTF8)
		if again := s.Sanitize([]byte(once), UTF8); again != once {
			t.Fatalf("Sanitize not idempotent for %q: %q then %q", raw, once, again)
		}
	}
	if got := s.Sanitize([]byte("ᄀ\x01ᅡ"), UTF8); got != "\uac00" {
		t.Fatalf("jamo joined by a dropped control = %q, want composed syllable", got)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		raw := make([]byte, rng.Intn(64))
		rng.Read(raw)
		for _, cp := range []CodePage{UTF8, Latin1, CP850} {
			once := s.Sanitize(raw, cp)
			twice := s.Clean(once)
			if once != twice {
				t.Fatalf("Clean not idempotent for %q under %s: %q then %q", raw, cp, once, twice)
			}
		}
		once := s.Sanitize(raw, UTF8)
		if again := s.Sanitize([]byte(once), UTF8); again != once {
			t.Fatalf("Sanitize not idempotent for %q: %q then %q", raw, once, again)
		}
	}
}

func TestNewSanitizerRejectsBadTable(t *testing.T) {
	tests := []map[string]string{
		{"ab": ""},
		{"": ""},
		{" ": ""},
		{"x": "y"},
	}
	for _, table := range tests {
		if _, err := NewSanitizer(table); err == nil {
			t.Fatalf("expected error for table %v", table)
		}
	}
}

func TestCustomArtifactReplacesWithSpace(t *testing.T) {
	s, err := NewSanitizer(map[string]string{"è": " "})
	if err != nil {
		t.Fatalf("NewSanitizer: %v", err)
	}
	// 0x8a decodes to è under CP850.
	if got := s.Sanitize([]byte("ONE\x8aTWO"), CP850); got != "ONE TWO" {
		t.Fatalf("got %q", got)
	}
}

func TestParseCodePage(t *testing.T) {
	tests := map[string]CodePage{
		"":            Latin1,
		"Latin-1":     Latin1,
		"850":         CP850,
		"ISO-8859-15": ISO885915,
		"utf8":        UTF8,
	}
	for input, want := range tests {
		got, err := ParseCodePage(input)
		if err != nil {
			t.Fatalf("ParseCodePage(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseCodePage(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseCodePage("ebcdic"); err == nil {
		t.Fatal("expected error for unsupported code page")
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName(" a/b:c?.scc "); got != "a-b-c.scc" {
		t.Fatalf("got %q", got)
	}
}
