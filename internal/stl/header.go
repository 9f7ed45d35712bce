package stl

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stl2scc/internal/textutil"
	"stl2scc/internal/timecode"
)

// ErrInvalidHeader reports a buffer that is too short for the header or does
// not carry the layout signature. It is fatal for the whole file.
var ErrInvalidHeader = errors.New("invalid stl header")

// Header holds the General Subtitle Information fields. Fields that do not
// fit in a short header are left empty.
type Header struct {
	CodePageNumber         string
	DiskFormatCode         string
	DisplayStandardCode    string
	CharacterCodeTable     string
	LanguageCode           string
	ProgrammeTitle         string
	EpisodeTitle           string
	TranslatedTitle        string
	TranslatedEpisode      string
	SubtitleListReference  string
	CreationDate           string
	RevisionDate           string
	RevisionNumber         string
	TotalBlocks            int
	TotalSubtitles         int
	MaxCharsPerRow         int
	MaxRows                int
	TimecodeStatus         string
	ProgrammeStartTimecode string
	CountryOfOrigin        string
	Publisher              string
	SignatureMatched       bool
}

// gsiField is a fixed ASCII field within the 1024 byte GSI block.
type gsiField struct {
	offset int
	size   int
}

var (
	fieldCPN = gsiField{0, 3}
	fieldDFC = gsiField{3, 8}
	fieldDSC = gsiField{11, 1}
	fieldCCT = gsiField{12, 2}
	fieldLC  = gsiField{14, 2}
	fieldOPT = gsiField{16, 32}
	fieldOET = gsiField{48, 32}
	fieldTPT = gsiField{80, 32}
	fieldTET = gsiField{112, 32}
	fieldSLR = gsiField{208, 16}
	fieldCD  = gsiField{224, 6}
	fieldRD  = gsiField{230, 6}
	fieldRN  = gsiField{236, 2}
	fieldTNB = gsiField{238, 5}
	fieldTNS = gsiField{243, 5}
	fieldMNC = gsiField{251, 2}
	fieldMNR = gsiField{253, 2}
	fieldTCS = gsiField{255, 1}
	fieldTCP = gsiField{256, 8}
	fieldCO  = gsiField{274, 3}
	fieldPUB = gsiField{277, 32}
)

// ParseHeader validates the header of data against layout. With strict set a
// missing signature fails with ErrInvalidHeader; otherwise it is recorded in
// SignatureMatched and parsing continues. A buffer shorter than the header is
// always invalid.
func ParseHeader(data []byte, layout Layout, strict bool) (Header, error) {
	if len(data) == 0 {
		return Header{}, fmt.Errorf("%w: empty input", ErrInvalidHeader)
	}
	if len(data) < layout.HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrInvalidHeader, len(data), layout.HeaderSize)
	}
	gsi := data[:layout.HeaderSize]

	matched := true
	if sig := layout.Signature; sig != "" {
		end := layout.SignatureOffset + len(sig)
		matched = end <= len(gsi) && bytes.Equal(gsi[layout.SignatureOffset:end], []byte(sig))
		if !matched && strict {
			return Header{}, fmt.Errorf("%w: signature %q not found at offset %d", ErrInvalidHeader, sig, layout.SignatureOffset)
		}
	}

	h := Header{
		CodePageNumber:         gsiText(gsi, fieldCPN),
		DiskFormatCode:         gsiText(gsi, fieldDFC),
		DisplayStandardCode:    gsiText(gsi, fieldDSC),
		CharacterCodeTable:     gsiText(gsi, fieldCCT),
		LanguageCode:           gsiText(gsi, fieldLC),
		ProgrammeTitle:         gsiText(gsi, fieldOPT),
		EpisodeTitle:           gsiText(gsi, fieldOET),
		TranslatedTitle:        gsiText(gsi, fieldTPT),
		TranslatedEpisode:      gsiText(gsi, fieldTET),
		SubtitleListReference:  gsiText(gsi, fieldSLR),
		CreationDate:           gsiText(gsi, fieldCD),
		RevisionDate:           gsiText(gsi, fieldRD),
		RevisionNumber:         gsiText(gsi, fieldRN),
		TotalBlocks:            gsiInt(gsi, fieldTNB),
		TotalSubtitles:         gsiInt(gsi, fieldTNS),
		MaxCharsPerRow:         gsiInt(gsi, fieldMNC),
		MaxRows:                gsiInt(gsi, fieldMNR),
		TimecodeStatus:         gsiText(gsi, fieldTCS),
		ProgrammeStartTimecode: gsiText(gsi, fieldTCP),
		CountryOfOrigin:        gsiText(gsi, fieldCO),
		Publisher:              gsiText(gsi, fieldPUB),
		SignatureMatched:       matched,
	}
	return h, nil
}

// FrameRate derives the source rate from the disk format code.
func (h Header) FrameRate() (timecode.Rate, bool) {
	switch strings.ToUpper(h.DiskFormatCode) {
	case "STL25.01":
		return timecode.Rate25, true
	case "STL30.01":
		return timecode.Rate2997, true
	case "STL24.01":
		return timecode.Rate24, true
	default:
		return timecode.Rate{}, false
	}
}

// CodePage maps the GSI code page number to a decoder.
func (h Header) CodePage() (textutil.CodePage, bool) {
	cp, err := textutil.ParseCodePage(h.CodePageNumber)
	if err != nil || h.CodePageNumber == "" {
		return "", false
	}
	return cp, true
}

// ProgrammeStart parses the HHMMSSFF start-of-programme field.
func (h Header) ProgrammeStart(rate timecode.Rate) (timecode.Timecode, error) {
	raw := h.ProgrammeStartTimecode
	if len(raw) != 8 {
		return timecode.Timecode{}, &timecode.FormatError{Input: raw, Reason: "start-of-programme field must be 8 digits"}
	}
	return timecode.Parse(raw[0:2]+":"+raw[2:4]+":"+raw[4:6]+":"+raw[6:8], rate)
}

func gsiText(gsi []byte, f gsiField) string {
	if f.offset+f.size > len(gsi) {
		return ""
	}
	text := textutil.Latin1.Decode(gsi[f.offset : f.offset+f.size])
	return strings.TrimSpace(strings.Trim(text, "\x00"))
}

func gsiInt(gsi []byte, f gsiField) int {
	n, err := strconv.Atoi(gsiText(gsi, f))
	if err != nil {
		return 0
	}
	return n
}
