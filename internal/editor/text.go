// ABOUTME: Small text statistics and markdown scaffolding helpers.
// ABOUTME: Word counts, cursor positions, tables, and list continuation.

package editor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CursorPosition returns the 1-based line and column of a byte offset.
// Offsets past the end clamp to the end of text.
func CursorPosition(text string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lastLine := before[strings.LastIndex(before, "\n")+1:]
	return line, utf8.RuneCountInString(lastLine) + 1
}

// Table builds a markdown table skeleton with a header row, a left-aligned
// separator row, and rows x cols placeholder cells.
func Table(rows, cols int) string {
	if rows < 0 {
		rows = 0
	}
	if cols < 1 {
		cols = 1
	}
	var sb strings.Builder
	sb.WriteString("\n|")
	for c := 1; c <= cols; c++ {
		fmt.Fprintf(&sb, " Header %d |", c)
	}
	sb.WriteString("\n|")
	for c := 1; c <= cols; c++ {
		sb.WriteString(" :--- |")
	}
	for r := 1; r <= rows; r++ {
		sb.WriteString("\n|")
		for c := 1; c <= cols; c++ {
			fmt.Fprintf(&sb, " Cell %d,%d |", r, c)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

var (
	emptyItem   = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)(\s+\[[ xX]\])?\s*$`)
	taskItem    = regexp.MustCompile(`^(\s*)([-*+])\s+\[[ xX]\]\s+\S`)
	bulletItem  = regexp.MustCompile(`^(\s*)([-*+])\s+\S`)
	orderedItem = regexp.MustCompile(`^(\s*)(\d+)\.\s+\S`)
)

// ContinueList decides what pressing Enter at the end of line should insert.
// It returns the prefix for the next line and whether the list continues.
// An empty item ends the list: end is true and the caller clears the line.
func ContinueList(line string) (prefix string, end bool) {
	if emptyItem.MatchString(line) {
		return "", true
	}
	if m := taskItem.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + " [ ] ", false
	}
	if m := bulletItem.FindStringSubmatch(line); m != nil {
		return m[1] + m[2] + " ", false
	}
	if m := orderedItem.FindStringSubmatch(line); m != nil {
		var n int
		_, _ = fmt.Sscanf(m[2], "%d", &n)
		return fmt.Sprintf("%s%d. ", m[1], n+1), false
	}
	return "", false
}
