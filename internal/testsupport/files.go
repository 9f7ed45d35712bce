package testsupport

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// STLRecord describes one TTI block written by BuildSTL.
type STLRecord struct {
	Start   [4]byte
	End     [4]byte
	Text    []byte
	Comment bool
}

// STLOptions overrides GSI fields written by BuildSTL.
type STLOptions struct {
	DiskFormatCode string
	CodePage       string
	Title          string
	StartOfProgram string
	// Trailing appends this many padding bytes after the last block.
	Trailing int
}

// BuildSTL assembles an EBU 3264 file: a 1024 byte GSI block and one 128 byte
// TTI block per record, text padded with 0x8F.
func BuildSTL(opts STLOptions, records ...STLRecord) []byte {
	if opts.DiskFormatCode == "" {
		opts.DiskFormatCode = "STL25.01"
	}
	if opts.CodePage == "" {
		opts.CodePage = "850"
	}
	if opts.StartOfProgram == "" {
		opts.StartOfProgram = "00000000"
	}

	gsi := make([]byte, 1024)
	for i := range gsi {
		gsi[i] = ' '
	}
	put := func(offset int, value string) {
		copy(gsi[offset:], value)
	}
	put(0, opts.CodePage)
	put(3, opts.DiskFormatCode)
	put(11, "0")
	put(12, "00")
	put(14, "09")
	put(16, opts.Title)
	put(224, "240101")
	put(230, "240101")
	put(236, "01")
	put(238, fmt.Sprintf("%05d", len(records)))
	put(243, fmt.Sprintf("%05d", len(records)))
	put(248, "001")
	put(251, "40")
	put(253, "23")
	put(255, "1")
	put(256, opts.StartOfProgram)
	put(264, opts.StartOfProgram)
	put(272, "1")
	put(273, "1")

	out := make([]byte, 0, len(gsi)+128*len(records)+opts.Trailing)
	out = append(out, gsi...)
	for i, rec := range records {
		block := make([]byte, 128)
		block[0] = 0
		binary.LittleEndian.PutUint16(block[1:3], uint16(i+1))
		block[3] = 0xff
		block[4] = 0
		copy(block[5:9], rec.Start[:])
		copy(block[9:13], rec.End[:])
		block[13] = 0x16
		block[14] = 0x02
		if rec.Comment {
			block[15] = 0x01
		}
		for j := 16; j < 128; j++ {
			block[j] = 0x8f
		}
		copy(block[16:], rec.Text)
		out = append(out, block...)
	}
	for i := 0; i < opts.Trailing; i++ {
		out = append(out, 0x8f)
	}
	return out
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
