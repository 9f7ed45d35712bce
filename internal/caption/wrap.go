package caption

import "strings"

// Wrap splits text into lines of at most maxChars characters. Each line ends
// at the last space that keeps it within the limit; a word longer than the
// limit is broken at exactly maxChars. Whitespace runs are collapsed first and
// no empty trailing line is produced.
func Wrap(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	remaining := []rune(strings.Join(strings.Fields(text), " "))
	var lines []string
	for len(remaining) > maxChars {
		cut, next := maxChars, maxChars
		// A space right after the limit still ends a full-length line.
		for i := maxChars; i > 0; i-- {
			if remaining[i] == ' ' {
				cut, next = i, i+1
				break
			}
		}
		if line := strings.TrimSpace(string(remaining[:cut])); line != "" {
			lines = append(lines, line)
		}
		remaining = []rune(strings.TrimLeft(string(remaining[next:]), " "))
	}
	if tail := strings.TrimSpace(string(remaining)); tail != "" {
		lines = append(lines, tail)
	}
	return lines
}
