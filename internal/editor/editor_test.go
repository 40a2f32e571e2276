// ABOUTME: Tests for find/replace and text helpers.
// ABOUTME: Covers regex fallback, cursor wraparound, tables, and lists.

package editor

import (
	"strings"
	"testing"
)

func TestFindCaseInsensitive(t *testing.T) {
	matches := Find("Go go GO", "go")
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[1] != (Match{Start: 3, End: 5}) {
		t.Errorf("unexpected second match %+v", matches[1])
	}
}

func TestFindInvalidRegexIsLiteral(t *testing.T) {
	matches := Find("call f(x) and f(y", "f(y")
	if len(matches) != 1 {
		t.Fatalf("expected 1 literal match, got %d", len(matches))
	}
}

func TestFindEmptyPattern(t *testing.T) {
	if got := Find("abc", ""); got != nil {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestCursorWraps(t *testing.T) {
	c := NewCursor(Find("a b a b a", "a"))

	first, _ := c.Next()
	c.Next()
	c.Next()
	wrapped, _ := c.Next()
	if wrapped != first {
		t.Errorf("expected wrap to first match, got %+v", wrapped)
	}

	last, _ := c.Prev()
	if last.Start != 8 {
		t.Errorf("expected prev to wrap to last match, got %+v", last)
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(nil)
	if _, ok := c.Next(); ok {
		t.Error("expected no match")
	}
	if _, ok := c.Prev(); ok {
		t.Error("expected no match")
	}
}

func TestReplaceAllCaseSensitive(t *testing.T) {
	got, n := ReplaceAll("cat Cat cat", "cat", "dog")
	if got != "dog Cat dog" || n != 2 {
		t.Errorf("unexpected replace result %q (%d)", got, n)
	}

	got, n = ReplaceAll("(a)", "(", "[")
	if got != "[a)" || n != 1 {
		t.Errorf("expected literal fallback, got %q (%d)", got, n)
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("  one two\nthree\t"); n != 3 {
		t.Errorf("expected 3 words, got %d", n)
	}
	if n := WordCount("   "); n != 0 {
		t.Errorf("expected 0 words, got %d", n)
	}
}

func TestCursorPosition(t *testing.T) {
	text := "ab\ncdé\nf"
	line, col := CursorPosition(text, strings.Index(text, "f"))
	if line != 3 || col != 1 {
		t.Errorf("expected 3:1, got %d:%d", line, col)
	}
	line, col = CursorPosition(text, strings.Index(text, "\nf"))
	if line != 2 || col != 4 {
		t.Errorf("expected 2:4, got %d:%d", line, col)
	}
}

func TestTable(t *testing.T) {
	got := Table(1, 2)
	want := "\n| Header 1 | Header 2 |\n| :--- | :--- |\n| Cell 1,1 | Cell 1,2 |\n"
	if got != want {
		t.Errorf("unexpected table:\n%q\nwant\n%q", got, want)
	}
}

func TestContinueList(t *testing.T) {
	cases := []struct {
		line   string
		prefix string
		end    bool
	}{
		{"- item", "- ", false},
		{"  * nested", "  * ", false},
		{"3. third", "4. ", false},
		{"- [x] done", "- [ ] ", false},
		{"- ", "", true},
		{"2.", "", true},
		{"- [ ]", "", true},
		{"plain text", "", false},
	}
	for _, tc := range cases {
		prefix, end := ContinueList(tc.line)
		if prefix != tc.prefix || end != tc.end {
			t.Errorf("ContinueList(%q) = %q, %v; want %q, %v", tc.line, prefix, end, tc.prefix, tc.end)
		}
	}
}
