// ABOUTME: Markdown rendering for previews, terminals, and export.
// ABOUTME: goldmark produces HTML, bluemonday sanitizes it, glamour draws it in a terminal.

package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const DefaultWidth = 80

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithUnsafe()),
	)

	ugc    = previewPolicy()
	strict = bluemonday.StrictPolicy()

	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// previewPolicy is the UGC policy plus what GFM output needs to survive:
// task list checkboxes, heading anchors, and code language classes.
func previewPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	return p
}

// HTML renders markdown to sanitized HTML. Raw HTML in the source is kept
// only where the sanitizer allows it.
func HTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return ugc.Sanitize(buf.String()), nil
}

// PlainText strips all markup, leaving readable text for formats without styling.
func PlainText(src string) (string, error) {
	out, err := HTML(src)
	if err != nil {
		return "", err
	}
	text := html.UnescapeString(strict.Sanitize(out))
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// Terminal renders markdown for a terminal. style is a glamour standard style
// name ("dark", "light", "notty") or "auto". Any renderer failure falls back
// to the raw markdown.
func Terminal(src string, width int, style string) string {
	if width <= 0 {
		width = DefaultWidth
	}
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return src
	}
	out, err := renderer.Render(src)
	if err != nil {
		return src
	}
	return out
}
