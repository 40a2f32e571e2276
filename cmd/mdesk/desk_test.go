// ABOUTME: Tests for the desk shell helpers.
// ABOUTME: Covers argument splitting and list continuation on Enter.

package main

import (
	"errors"
	"reflect"
	"testing"

	"github.com/harper/mdesk/internal/docdb"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"open 3", []string{"open", "3"}},
		{"  ls  ", []string{"ls"}},
		{`edit 1 '# Title\n- item'`, []string{"edit", "1", `# Title\n- item`}},
		{`saveas 2 "Q3 plan"`, []string{"saveas", "2", "Q3 plan"}},
		{`append 1 " more"`, []string{"append", "1", " more"}},
	}

	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if err != nil {
			t.Fatalf("splitArgs(%q) error: %v", tt.line, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSplitArgsBlankLine(t *testing.T) {
	got, err := splitArgs("   ")
	if err != nil {
		t.Fatalf("splitArgs error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("splitArgs of blank line = %q, want no words", got)
	}
}

func TestSplitArgsUnterminatedQuote(t *testing.T) {
	for _, line := range []string{`edit 1 "open`, `edit 1 'open`} {
		if _, err := splitArgs(line); err == nil {
			t.Errorf("splitArgs(%q): expected error for unterminated quote", line)
		}
	}
}

func TestEditTextUnescapes(t *testing.T) {
	args, err := splitArgs(`edit 1 '# Notes\n- first'`)
	if err != nil {
		t.Fatal(err)
	}
	if got := unescape(args[2]); got != "# Notes\n- first" {
		t.Errorf("unescape = %q", got)
	}
}

func TestPressEnter(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"plain", "plain\n"},
		{"# Notes\n- first", "# Notes\n- first\n- "},
		{"1. one", "1. one\n2. "},
		{"- [x] done", "- [x] done\n- [ ] "},
		{"- a\n- ", "- a\n\n"},
		{"1. one\n2. ", "1. one\n\n"},
	}

	for _, tt := range tests {
		if got := pressEnter(tt.content); got != tt.want {
			t.Errorf("pressEnter(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestParseFolderArg(t *testing.T) {
	for _, s := range []string{"", "root", "none", "-"} {
		id, err := parseFolderArg(s)
		if err != nil || id != nil {
			t.Errorf("parseFolderArg(%q) = %v, %v; want nil, nil", s, id, err)
		}
	}

	id, err := parseFolderArg("#4")
	if err != nil || id == nil || *id != 4 {
		t.Errorf("parseFolderArg(#4) = %v, %v", id, err)
	}

	if _, err := parseFolderArg("abc"); err == nil {
		t.Error("expected error for non-numeric folder")
	}
}

func TestNotFoundErrorsAreTyped(t *testing.T) {
	err := folderNotFound(7)
	if !errors.Is(err, docdb.ErrNotFound) || !docdb.IsNotFound(err, docdb.KindFolder) {
		t.Errorf("folderNotFound(7) = %v, want a folder NotFoundError", err)
	}
	if err.Error() != "folder 7 not found" {
		t.Errorf("message = %q", err.Error())
	}

	err = documentNotFound(3)
	if !docdb.IsNotFound(err, docdb.KindDocument) {
		t.Errorf("documentNotFound(3) = %v, want a document NotFoundError", err)
	}
}
