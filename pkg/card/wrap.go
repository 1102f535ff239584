// wrap.go — Greedy word wrapping with a line cap and ellipsis truncation.
package card

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Ellipsis marks a truncated last line.
const Ellipsis = "…"

// Wrap breaks text into lines of at most lineWidth display columns, breaking only
// between words. A word wider than lineWidth gets a line of its own. Newlines in
// text are hard breaks. If more than maxLines lines result, only the first
// maxLines are kept and Ellipsis is appended to the last one; maxLines <= 0
// disables the cap.
//
// Empty text yields a single empty line. Wrap panics if lineWidth is not positive.
func Wrap(text string, lineWidth, maxLines int) []string {
	if lineWidth <= 0 {
		panic("card: Wrap called with non-positive width")
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.FieldsFunc(para, isBreakingSpace)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		currentLine := words[0]
		currentWidth := DisplayWidth(words[0])
		for _, word := range words[1:] {
			w := DisplayWidth(word)
			if currentWidth+1+w > lineWidth {
				lines = append(lines, currentLine)
				currentLine, currentWidth = word, w
				continue
			}
			currentLine += " " + word
			currentWidth += 1 + w
		}
		lines = append(lines, currentLine)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += Ellipsis
	}
	return lines
}

// isBreakingSpace reports whether r separates words. No-break spaces keep
// their neighbours on one line.
func isBreakingSpace(r rune) bool {
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}

// DisplayWidth returns the number of terminal-style columns s occupies: East
// Asian wide and fullwidth runes take two, nonspacing marks none.
func DisplayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	if unicode.Is(unicode.Mn, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
