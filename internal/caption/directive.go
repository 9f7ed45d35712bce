package caption

import "strings"

// directives maps bracketed in-band tokens to the mode they select.
var directives = []struct {
	token string
	mode  DisplayMode
}{
	{"{RU2}", RollUp2},
	{"{RU3}", RollUp3},
	{"{RU4}", RollUp4},
	{"{PA}", PaintOn},
}

// ExtractDirective classifies the first display directive in text and
// returns the text with every recognised token replaced by a space. Text
// without a directive is PopOn.
func ExtractDirective(text string) (DisplayMode, string) {
	mode := PopOn
	first := -1
	for _, d := range directives {
		idx := strings.Index(text, d.token)
		if idx < 0 {
			continue
		}
		if first < 0 || idx < first {
			first = idx
			mode = d.mode
		}
	}
	if first < 0 {
		return PopOn, text
	}
	for _, d := range directives {
		text = strings.ReplaceAll(text, d.token, " ")
	}
	return mode, text
}
