// Package caption turns decoded STL records into display-ready captions:
// it classifies in-band display directives, wraps text to a line length, and
// binds the result to start and end timecodes.
package caption

import (
	"fmt"
	"strings"

	"stl2scc/internal/timecode"
)

// DefaultMaxChars leaves one column of the 32 column caption grid free.
const DefaultMaxChars = 31

// DisplayMode selects how a caption appears on screen.
type DisplayMode int

const (
	PopOn DisplayMode = iota
	RollUp2
	RollUp3
	RollUp4
	PaintOn
)

var modeNames = map[DisplayMode]string{
	PopOn:   "pop-on",
	RollUp2: "roll-up-2",
	RollUp3: "roll-up-3",
	RollUp4: "roll-up-4",
	PaintOn: "paint-on",
}

func (m DisplayMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseDisplayMode accepts the names returned by String.
func ParseDisplayMode(value string) (DisplayMode, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	for mode, name := range modeNames {
		if name == key {
			return mode, nil
		}
	}
	return PopOn, fmt.Errorf("display mode: unsupported value %q", value)
}

// RollUpRows returns the window depth for roll-up modes and 0 otherwise.
func (m DisplayMode) RollUpRows() int {
	switch m {
	case RollUp2:
		return 2
	case RollUp3:
		return 3
	case RollUp4:
		return 4
	default:
		return 0
	}
}

// Caption is one display unit. Captions are kept in file order.
type Caption struct {
	Index int
	Start timecode.Timecode
	End   timecode.Timecode
	Mode  DisplayMode
	Lines []string
}

// Text joins the caption lines with single spaces.
func (c Caption) Text() string {
	return strings.Join(c.Lines, " ")
}
