// ABOUTME: Terminal UI formatting for mdesk output.
// ABOUTME: Uses fatih/color for styling and render.Terminal for markdown.

package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/mdesk/internal/desktop"
	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/models"
	"github.com/harper/mdesk/internal/render"
	"github.com/harper/mdesk/internal/tree"
)

const timeLayout = "2006-01-02 15:04"

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

type FolderCount struct {
	Folder *models.Folder
	Count  int
}

func FormatDocumentListItem(doc *models.Document, folder string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(fmt.Sprintf("#%-4d", doc.ID)), bold(doc.Title)))

	if folder != "" {
		sb.WriteString(fmt.Sprintf("         %s %s\n", faint("Folder:"), cyan(folder)))
	}

	sb.WriteString(fmt.Sprintf("         %s %s  %s\n",
		faint("Modified:"),
		faint(doc.Modified.Local().Format(timeLayout)),
		faint(fmt.Sprintf("(%d words)", editor.WordCount(doc.Content)))))

	return sb.String()
}

// FormatDocumentContent renders markdown for the terminal, falling back to raw text.
func FormatDocumentContent(content string, width int, style string) string {
	return render.Terminal(content, width, style)
}

func FormatDocumentHeader(doc *models.Document, folder string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s\n", bold(doc.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(doc.ID)))
	if folder != "" {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Folder:"), cyan(folder)))
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(doc.Created.Local().Format(timeLayout))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Modified:"), faint(doc.Modified.Local().Format(timeLayout))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Words:"), faint(editor.WordCount(doc.Content))))

	sb.WriteString(Separator())
	return sb.String()
}

func FormatFolderList(folders []FolderCount) string {
	var sb strings.Builder

	for _, f := range folders {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			faint(fmt.Sprintf("#%-4d", f.Folder.ID)),
			cyan(f.Folder.Name),
			faint(fmt.Sprintf("(%d)", f.Count))))
	}

	return sb.String()
}

// FormatTree draws the sidebar: root documents first, then each folder.
func FormatTree(t tree.Tree) string {
	var sb strings.Builder

	for _, d := range t.Root {
		sb.WriteString(treeLine("  ", d))
	}
	for _, f := range t.Folders {
		sb.WriteString(FormatFolderHeader(f.Name))
		if len(f.Documents) == 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", faint("(empty)")))
		}
		for _, d := range f.Documents {
			sb.WriteString(treeLine("    ", d))
		}
	}
	if len(t.Orphans) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s %s\n", "⚠", bold("Missing folder")))
		for _, d := range t.Orphans {
			sb.WriteString(treeLine("    ", d))
		}
	}

	return sb.String()
}

func treeLine(indent string, d tree.DocumentNode) string {
	return fmt.Sprintf("%s%s %s\n", indent, faint(fmt.Sprintf("#%-4d", d.ID)), d.Title)
}

func FormatFolderHeader(name string) string {
	return fmt.Sprintf("%s %s\n", "📁", bold(name))
}

// FormatMatches prints each match with its line number and the line highlighted.
func FormatMatches(content string, matches []editor.Match) string {
	var sb strings.Builder

	for _, m := range matches {
		line, col := editor.CursorPosition(content, m.Start)
		start := strings.LastIndexByte(content[:m.Start], '\n') + 1
		end := strings.IndexByte(content[m.End:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += m.End
		}
		sb.WriteString(fmt.Sprintf("  %s %s%s%s\n",
			faint(fmt.Sprintf("%d:%d", line, col)),
			content[start:m.Start],
			yellow(content[m.Start:m.End]),
			content[m.End:end]))
	}

	return sb.String()
}

// FormatWindows lists open windows in taskbar order with the active one marked.
func FormatWindows(windows []desktop.Window, active string) string {
	if len(windows) == 0 {
		return faint("  no open windows") + "\n"
	}

	var sb strings.Builder
	for i, w := range windows {
		marker := " "
		if w.SessionID == active {
			marker = "*"
		}
		doc := "scratch"
		if w.DocumentID != nil {
			doc = fmt.Sprintf("doc #%d", *w.DocumentID)
		}
		dirty := ""
		if w.Dirty() {
			dirty = yellow(" (unsaved)")
		}
		sb.WriteString(fmt.Sprintf(" %s %d  %s%s  %s\n",
			marker, i+1, bold(w.Title), dirty,
			faint(fmt.Sprintf("[%s, %s, z=%d, at %d,%d]", doc, w.State, w.Z, w.X, w.Y))))
	}
	return sb.String()
}

// FormatTaskbar renders the taskbar strip as one line.
func FormatTaskbar(entries []desktop.TaskbarEntry) string {
	items := make([]string, 0, len(entries))
	for i, e := range entries {
		label := fmt.Sprintf("%d:%s", i+1, e.Title)
		switch {
		case e.Active:
			label = bold("[" + label + "]")
		case e.Minimized:
			label = faint("(" + label + ")")
		}
		items = append(items, label)
	}
	return strings.Join(items, " ") + "\n"
}

func FormatEvent(e desktop.Event) string {
	msg := fmt.Sprintf("%s %s", e.Kind, shortID(e.SessionID))
	if e.Err != nil {
		return Error(fmt.Sprintf("%s: %v", msg, e.Err))
	}
	return faint(msg)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func FormatShowMorePrompt(count int) string {
	return faint(fmt.Sprintf("\nShow %d more documents? (y/n) ", count))
}
