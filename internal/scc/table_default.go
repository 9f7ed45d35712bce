package scc

import (
	"maps"

	"stl2scc/internal/caption"
)

// basicOverrides are the positions where the EIA-608 basic set differs from
// ASCII. The ASCII characters displaced from these positions are reachable
// only through the extended set.
var basicOverrides = map[byte]rune{
	0x2a: 'á',
	0x5c: 'é',
	0x5e: 'í',
	0x5f: 'ó',
	0x60: 'ú',
	0x7b: 'ç',
	0x7c: '÷',
	0x7d: 'Ñ',
	0x7e: 'ñ',
	0x7f: '█',
}

var specialChars = map[rune]pair{
	'®': {0x11, 0x30},
	'°': {0x11, 0x31},
	'½': {0x11, 0x32},
	'¿': {0x11, 0x33},
	'™': {0x11, 0x34},
	'¢': {0x11, 0x35},
	'£': {0x11, 0x36},
	'♪': {0x11, 0x37},
	'à': {0x11, 0x38},
	'è': {0x11, 0x3a},
	'â': {0x11, 0x3b},
	'ê': {0x11, 0x3c},
	'î': {0x11, 0x3d},
	'ô': {0x11, 0x3e},
	'û': {0x11, 0x3f},
}

var extendedChars = map[rune]Extended{
	// Spanish, miscellaneous and French (0x12).
	'Á': {pair{0x12, 0x20}, 'A'},
	'É': {pair{0x12, 0x21}, 'E'},
	'Ó': {pair{0x12, 0x22}, 'O'},
	'Ú': {pair{0x12, 0x23}, 'U'},
	'Ü': {pair{0x12, 0x24}, 'U'},
	'ü': {pair{0x12, 0x25}, 'u'},
	'‘': {pair{0x12, 0x26}, '\''},
	'¡': {pair{0x12, 0x27}, '!'},
	'*': {pair{0x12, 0x28}, '.'},
	'’': {pair{0x12, 0x29}, '\''},
	'—': {pair{0x12, 0x2a}, '-'},
	'©': {pair{0x12, 0x2b}, 'c'},
	'℠': {pair{0x12, 0x2c}, ' '},
	'•': {pair{0x12, 0x2d}, '.'},
	'“': {pair{0x12, 0x2e}, '"'},
	'”': {pair{0x12, 0x2f}, '"'},
	'À': {pair{0x12, 0x30}, 'A'},
	'Â': {pair{0x12, 0x31}, 'A'},
	'Ç': {pair{0x12, 0x32}, 'C'},
	'È': {pair{0x12, 0x33}, 'E'},
	'Ê': {pair{0x12, 0x34}, 'E'},
	'Ë': {pair{0x12, 0x35}, 'E'},
	'ë': {pair{0x12, 0x36}, 'e'},
	'Î': {pair{0x12, 0x37}, 'I'},
	'Ï': {pair{0x12, 0x38}, 'I'},
	'ï': {pair{0x12, 0x39}, 'i'},
	'Ô': {pair{0x12, 0x3a}, 'O'},
	'Ù': {pair{0x12, 0x3b}, 'U'},
	'ù': {pair{0x12, 0x3c}, 'u'},
	'Û': {pair{0x12, 0x3d}, 'U'},
	'«': {pair{0x12, 0x3e}, '"'},
	'»': {pair{0x12, 0x3f}, '"'},
	// Portuguese, German and Danish (0x13).
	'Ã':  {pair{0x13, 0x20}, 'A'},
	'ã':  {pair{0x13, 0x21}, 'a'},
	'Í':  {pair{0x13, 0x22}, 'I'},
	'Ì':  {pair{0x13, 0x23}, 'I'},
	'ì':  {pair{0x13, 0x24}, 'i'},
	'Ò':  {pair{0x13, 0x25}, 'O'},
	'ò':  {pair{0x13, 0x26}, 'o'},
	'Õ':  {pair{0x13, 0x27}, 'O'},
	'õ':  {pair{0x13, 0x28}, 'o'},
	'{':  {pair{0x13, 0x29}, '['},
	'}':  {pair{0x13, 0x2a}, ']'},
	'\\': {pair{0x13, 0x2b}, '/'},
	'^':  {pair{0x13, 0x2c}, ' '},
	'_':  {pair{0x13, 0x2d}, '-'},
	'|':  {pair{0x13, 0x2e}, ' '},
	'~':  {pair{0x13, 0x2f}, '-'},
	'Ä':  {pair{0x13, 0x30}, 'A'},
	'ä':  {pair{0x13, 0x31}, 'a'},
	'Ö':  {pair{0x13, 0x32}, 'O'},
	'ö':  {pair{0x13, 0x33}, 'o'},
	'ß':  {pair{0x13, 0x34}, 's'},
	'¥':  {pair{0x13, 0x35}, 'Y'},
	'¤':  {pair{0x13, 0x36}, ' '},
	'│':  {pair{0x13, 0x37}, ' '},
	'Å':  {pair{0x13, 0x38}, 'A'},
	'å':  {pair{0x13, 0x39}, 'a'},
	'Ø':  {pair{0x13, 0x3a}, 'O'},
	'ø':  {pair{0x13, 0x3b}, 'o'},
	'┌':  {pair{0x13, 0x3c}, '+'},
	'┐':  {pair{0x13, 0x3d}, '+'},
	'└':  {pair{0x13, 0x3e}, '+'},
	'┘':  {pair{0x13, 0x3f}, '+'},
}

// Channel 1 miscellaneous control codes.
var controlCodes = map[Control]pair{
	RCL: {0x14, 0x20},
	BS:  {0x14, 0x21},
	DER: {0x14, 0x24},
	RU2: {0x14, 0x25},
	RU3: {0x14, 0x26},
	RU4: {0x14, 0x27},
	FON: {0x14, 0x28},
	RDC: {0x14, 0x29},
	TR:  {0x14, 0x2a},
	RTD: {0x14, 0x2b},
	EDM: {0x14, 0x2c},
	CR:  {0x14, 0x2d},
	ENM: {0x14, 0x2e},
	EOC: {0x14, 0x2f},
	TO1: {0x17, 0x21},
	TO2: {0x17, 0x22},
	TO3: {0x17, 0x23},
}

// Channel 1 preamble address codes, white, no underline, indent zero.
var preambleRows = map[int]pair{
	1:  {0x11, 0x40},
	2:  {0x11, 0x60},
	3:  {0x12, 0x40},
	4:  {0x12, 0x60},
	5:  {0x15, 0x40},
	6:  {0x15, 0x60},
	7:  {0x16, 0x40},
	8:  {0x16, 0x60},
	9:  {0x17, 0x40},
	10: {0x17, 0x60},
	11: {0x10, 0x40},
	12: {0x13, 0x40},
	13: {0x13, 0x60},
	14: {0x14, 0x40},
	15: {0x14, 0x60},
}

var modeSequences = map[caption.DisplayMode]Sequence{
	caption.PopOn:   {Open: []Control{RCL, ENM}, Close: []Control{EDM, EOC}},
	caption.RollUp2: {Open: []Control{RU2, CR}, LineBreak: []Control{CR}},
	caption.RollUp3: {Open: []Control{RU3, CR}, LineBreak: []Control{CR}},
	caption.RollUp4: {Open: []Control{RU4, CR}, LineBreak: []Control{CR}},
	caption.PaintOn: {Open: []Control{RDC, EDM}},
}

// DefaultTable returns a fresh copy of the CEA-608 channel 1 table.
func DefaultTable() *Table {
	basic := make(map[rune]byte, 96)
	for b := byte(0x20); b < 0x80; b++ {
		if r, ok := basicOverrides[b]; ok {
			basic[r] = b
			continue
		}
		basic[rune(b)] = b
	}

	modes := make(map[caption.DisplayMode]Sequence, len(modeSequences))
	for mode, seq := range modeSequences {
		modes[mode] = Sequence{
			Open:      append([]Control(nil), seq.Open...),
			LineBreak: append([]Control(nil), seq.LineBreak...),
			Close:     append([]Control(nil), seq.Close...),
		}
	}

	return &Table{
		Name:      "cea-608",
		Parity:    true,
		Pad:       0x20,
		Filler:    0x00,
		Basic:     basic,
		Special:   maps.Clone(specialChars),
		Extended:  maps.Clone(extendedChars),
		Controls:  maps.Clone(controlCodes),
		Preambles: maps.Clone(preambleRows),
		Modes:     modes,
	}
}
