package cdl

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapTokens lays tokens out greedily on lines no wider than width, joining
// them with single spaces. The first line starts with first, the others with
// rest. A token is never split: one wider than the line gets a line of its
// own.
func wrapTokens(tokens []string, width int, first, rest string) []string {
	var lines []string
	var sb strings.Builder
	sb.WriteString(first)
	lineWidth := runewidth.StringWidth(first)
	empty := true
	for _, tok := range tokens {
		tw := runewidth.StringWidth(tok)
		if !empty && lineWidth+1+tw > width {
			lines = append(lines, sb.String())
			sb.Reset()
			sb.WriteString(rest)
			lineWidth = runewidth.StringWidth(rest)
			empty = true
		}
		if !empty {
			sb.WriteByte(' ')
			lineWidth++
		}
		sb.WriteString(tok)
		lineWidth += tw
		empty = false
	}
	return append(lines, sb.String())
}
