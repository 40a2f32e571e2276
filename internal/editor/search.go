// ABOUTME: Find and replace over document text.
// ABOUTME: Patterns are regular expressions, falling back to literal text when invalid.

package editor

import (
	"regexp"
)

// Match is a byte range [Start, End) in the searched text.
type Match struct {
	Start int
	End   int
}

// compile builds a pattern, treating an invalid regexp as literal text.
func compile(pattern string, foldCase bool) *regexp.Regexp {
	prefix := ""
	if foldCase {
		prefix = "(?i)"
	}
	re, err := regexp.Compile(prefix + pattern)
	if err != nil {
		re = regexp.MustCompile(prefix + regexp.QuoteMeta(pattern))
	}
	return re
}

// Find returns every case-insensitive match of pattern in content.
// Empty matches are skipped so a cursor always has something to select.
func Find(content, pattern string) []Match {
	if pattern == "" {
		return nil
	}
	var out []Match
	for _, loc := range compile(pattern, true).FindAllStringIndex(content, -1) {
		if loc[1] > loc[0] {
			out = append(out, Match{Start: loc[0], End: loc[1]})
		}
	}
	return out
}

// ReplaceAll replaces every case-sensitive match of pattern. The replacement
// may reference groups with $1.
func ReplaceAll(content, pattern, replacement string) (string, int) {
	if pattern == "" {
		return content, 0
	}
	re := compile(pattern, false)
	n := len(re.FindAllStringIndex(content, -1))
	if n == 0 {
		return content, 0
	}
	return re.ReplaceAllString(content, replacement), n
}

// Cursor walks a set of matches with wraparound in both directions.
type Cursor struct {
	matches []Match
	pos     int
}

// NewCursor positions before the first match.
func NewCursor(matches []Match) *Cursor {
	return &Cursor{matches: matches, pos: -1}
}

func (c *Cursor) Len() int { return len(c.matches) }

// Next advances and returns the selected match, or false when there are none.
func (c *Cursor) Next() (Match, bool) {
	if len(c.matches) == 0 {
		return Match{}, false
	}
	c.pos = (c.pos + 1) % len(c.matches)
	return c.matches[c.pos], true
}

// Prev steps back and returns the selected match.
func (c *Cursor) Prev() (Match, bool) {
	if len(c.matches) == 0 {
		return Match{}, false
	}
	if c.pos < 0 {
		c.pos = 0
	}
	c.pos = (c.pos - 1 + len(c.matches)) % len(c.matches)
	return c.matches[c.pos], true
}
