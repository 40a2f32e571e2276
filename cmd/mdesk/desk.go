// ABOUTME: Interactive desk shell over the window manager.
// ABOUTME: Each input line is parsed by its own cobra command tree.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/harper/mdesk/internal/desktop"
	"github.com/harper/mdesk/internal/docdb"
	"github.com/harper/mdesk/internal/editor"
	"github.com/harper/mdesk/internal/render"
	"github.com/harper/mdesk/internal/tree"
	"github.com/harper/mdesk/internal/ui"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

var deskCmd = &cobra.Command{
	Use:   "desk [id...]",
	Short: "Open the interactive desktop",
	Long: `Open a desktop of editor windows. Documents given as arguments open right away.
Type "help" at the prompt for the window commands. Lines follow shell quoting;
use single quotes to keep \n escapes for edit and append.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce := cfg.SaveDebounce
		if cmd.Flags().Changed("debounce") {
			debounce, _ = cmd.Flags().GetDuration("debounce")
		}

		mgr := desktop.New(docs,
			desktop.WithSaveDebounce(debounce),
			desktop.WithCascade(cfg.Desk.CascadeOrigin, cfg.Desk.CascadeStep),
			desktop.WithLogger(logger),
		)
		d := newDesk(mgr, cmd.OutOrStdout())
		defer d.stop()

		for _, arg := range args {
			if err := d.run([]string{"open", arg}); err != nil {
				return err
			}
		}
		return d.loop(cmd.InOrStdin())
	},
}

type desk struct {
	mgr *desktop.Manager

	outMu sync.Mutex
	out   io.Writer

	treeMu sync.Mutex
	view   tree.Tree

	cursor    *editor.Cursor
	cursorWin string
	quit      bool

	cancels []func()
}

func newDesk(mgr *desktop.Manager, out io.Writer) *desk {
	d := &desk{mgr: mgr, out: out, view: tree.Project(docs)}
	d.cancels = append(d.cancels,
		mgr.Subscribe(d.onEvent),
		tree.Watch(docs, d.onTree),
	)
	return d
}

func (d *desk) onEvent(e desktop.Event) {
	switch e.Kind {
	case desktop.EventSaved, desktop.EventSaveFailed, desktop.EventClosed:
		d.printf("%s\n", ui.FormatEvent(e))
	}
}

func (d *desk) onTree(t tree.Tree) {
	d.treeMu.Lock()
	d.view = t
	d.treeMu.Unlock()
}

func (d *desk) printf(format string, args ...any) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, format, args...)
}

func (d *desk) loop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for !d.quit {
		d.printf("desk> ")
		if !scanner.Scan() {
			d.printf("\n")
			break
		}
		args, err := splitArgs(scanner.Text())
		if err != nil {
			d.printf("%s\n", ui.Error(err.Error()))
			continue
		}
		if len(args) == 0 {
			continue
		}
		if err := d.run(args); err != nil {
			d.printf("%s\n", ui.Error(describe(err)))
		}
	}
	return scanner.Err()
}

func (d *desk) stop() {
	n := d.mgr.CloseAll()
	for _, cancel := range d.cancels {
		cancel()
	}
	if n > 0 {
		d.printf("%s\n", ui.Success(fmt.Sprintf("Closed %d windows", n)))
	}
}

func (d *desk) run(args []string) error {
	shell := d.commands()
	shell.SetArgs(args)
	shell.SetOut(&lockedWriter{d: d})
	shell.SetErr(&lockedWriter{d: d})
	return shell.Execute()
}

type lockedWriter struct{ d *desk }

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.d.outMu.Lock()
	defer w.d.outMu.Unlock()
	return w.d.out.Write(p)
}

// resolve maps a taskbar position (1-based) or a session id prefix to a session id.
func (d *desk) resolve(ref string) (string, error) {
	bar := d.mgr.Taskbar()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(bar) {
			return "", fmt.Errorf("no window %d (%d open)", n, len(bar))
		}
		return bar[n-1].SessionID, nil
	}
	for _, e := range bar {
		if strings.HasPrefix(e.SessionID, ref) {
			return e.SessionID, nil
		}
	}
	return "", &desktop.SessionNotFoundError{SessionID: ref}
}

// windowCmd builds a subcommand whose first argument names a window.
func (d *desk) windowCmd(use, short string, args cobra.PositionalArgs, fn func(cmd *cobra.Command, id string, rest []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			id, err := d.resolve(argv[0])
			if err != nil {
				return err
			}
			return fn(cmd, id, argv[1:])
		},
	}
}

//nolint:funlen // One place that lists every desk command
func (d *desk) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "desk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	open := &cobra.Command{
		Use:   "open [doc-id]",
		Short: "Open a document, or a scratch window with no id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				d.mgr.Open(nil)
				return d.list(cmd)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, ok := docs.GetDocument(id)
			if !ok {
				return documentNotFound(id)
			}
			d.mgr.Open(doc)
			return d.list(cmd)
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"windows"},
		Short:   "List windows and the taskbar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.list(cmd)
		},
	}

	focus := d.windowCmd("focus <win>", "Raise and focus a window", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			if err := d.mgr.Focus(id); err != nil {
				return err
			}
			return d.list(cmd)
		})

	minimize := d.windowCmd("min <win>", "Minimize a window", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			if err := d.mgr.Minimize(id); err != nil {
				return err
			}
			return d.list(cmd)
		})

	maximize := d.windowCmd("max <win>", "Toggle a window between normal and maximized", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			if err := d.mgr.Maximize(id); err != nil {
				return err
			}
			return d.list(cmd)
		})

	restore := d.windowCmd("restore <win>", "Show a minimized window", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			if err := d.mgr.Restore(id); err != nil {
				return err
			}
			return d.list(cmd)
		})

	click := d.windowCmd("click <win>", "Click a taskbar entry", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			if err := d.mgr.ActivateFromTaskbar(id); err != nil {
				return err
			}
			return d.list(cmd)
		})

	move := d.windowCmd("move <win> <x> <y>", "Drag a window to a position", cobra.ExactArgs(3),
		func(cmd *cobra.Command, id string, rest []string) error {
			x, errX := strconv.Atoi(rest[0])
			y, errY := strconv.Atoi(rest[1])
			if err := errors.Join(errX, errY); err != nil {
				return fmt.Errorf("invalid position: %w", err)
			}
			if err := d.mgr.Drag(id, x, y); err != nil {
				return err
			}
			return d.list(cmd)
		})

	closeWin := d.windowCmd("close <win>", "Close a window, saving pending edits", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			return d.mgr.Close(id)
		})

	closeAll := &cobra.Command{
		Use:   "closeall",
		Short: "Close every window",
		RunE: func(cmd *cobra.Command, args []string) error {
			n := d.mgr.CloseAll()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Closed %d windows", n)))
			return nil
		},
	}

	edit := d.windowCmd("edit <win> <text...>", `Replace window content ('\n' in single quotes for newlines)`, cobra.MinimumNArgs(1),
		func(cmd *cobra.Command, id string, rest []string) error {
			return d.mgr.Edit(id, unescape(strings.Join(rest, " ")))
		})

	appendText := d.windowCmd("append <win> <text...>", "Append text to the window", cobra.MinimumNArgs(2),
		func(cmd *cobra.Command, id string, rest []string) error {
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			return d.mgr.Edit(id, w.Content+unescape(strings.Join(rest, " ")))
		})

	enter := d.windowCmd("enter <win>", "Press Enter at the end of the window, continuing lists", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			return d.mgr.Edit(id, pressEnter(w.Content))
		})

	table := d.windowCmd("table <win> <rows> <cols>", "Insert a markdown table", cobra.ExactArgs(3),
		func(cmd *cobra.Command, id string, rest []string) error {
			rows, errR := strconv.Atoi(rest[0])
			cols, errC := strconv.Atoi(rest[1])
			if err := errors.Join(errR, errC); err != nil || rows < 1 || cols < 1 {
				return fmt.Errorf("rows and cols must be positive numbers")
			}
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			return d.mgr.Edit(id, w.Content+editor.Table(rows, cols))
		})

	find := d.windowCmd("find <win> <pattern...>", "Find text in a window", cobra.MinimumNArgs(2),
		func(cmd *cobra.Command, id string, rest []string) error {
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			matches := editor.Find(w.Content, strings.Join(rest, " "))
			d.cursor, d.cursorWin = editor.NewCursor(matches), id
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatMatches(w.Content, matches))
			return nil
		})

	next := &cobra.Command{
		Use:   "next",
		Short: "Select the next match of the last find",
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.step(cmd, (*editor.Cursor).Next)
		},
	}
	prev := &cobra.Command{
		Use:   "prev",
		Short: "Select the previous match of the last find",
		RunE: func(cmd *cobra.Command, args []string) error {
			return d.step(cmd, (*editor.Cursor).Prev)
		},
	}

	view := d.windowCmd("view <win>", "Render a window's markdown", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Terminal(w.Content, cfg.Render.Width, cfg.Theme))
			return nil
		})

	stats := d.windowCmd("stats <win>", "Word count and end position", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			w, err := d.mgr.Window(id)
			if err != nil {
				return err
			}
			line, col := editor.CursorPosition(w.Content, len(w.Content))
			fmt.Fprintf(cmd.OutOrStdout(), "Words: %d  Line: %d, Column: %d\n", editor.WordCount(w.Content), line, col)
			return nil
		})

	saveAs := d.windowCmd("saveas <win> [title...]", "Save a scratch window as a new document", cobra.MinimumNArgs(1),
		func(cmd *cobra.Command, id string, rest []string) error {
			doc, err := d.mgr.SaveAs(id, strings.Join(rest, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Saved as document #%d %q", doc.ID, doc.Title)))
			return nil
		})

	flush := d.windowCmd("save <win>", "Save pending edits now", cobra.ExactArgs(1),
		func(cmd *cobra.Command, id string, _ []string) error {
			return d.mgr.Flush(id)
		})

	rename := &cobra.Command{
		Use:   "rename <doc-id> <title...>",
		Short: "Rename a document and its windows",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := docs.RenameDocument(id, strings.Join(args[1:], " "))
			if errors.Is(err, docdb.ErrValidationSkipped) {
				fmt.Fprintln(cmd.OutOrStdout(), "Rename cancelled.")
				return nil
			}
			if err != nil {
				return err
			}
			d.mgr.Retitle(doc.ID, doc.Title)
			return d.list(cmd)
		},
	}

	remove := &cobra.Command{
		Use:   "rm <doc-id>",
		Short: "Delete a document and close its windows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			removed, err := docs.DeleteDocument(id)
			if err != nil {
				return err
			}
			if !removed {
				return documentNotFound(id)
			}
			d.mgr.CloseDocument(id)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Deleted document #%d", id)))
			return nil
		},
	}

	sidebar := &cobra.Command{
		Use:   "tree",
		Short: "Show the folder tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			d.treeMu.Lock()
			t := d.view
			d.treeMu.Unlock()
			fmt.Fprint(cmd.OutOrStdout(), ui.FormatTree(t))
			return nil
		},
	}

	quit := &cobra.Command{
		Use:     "quit",
		Aliases: []string{"exit"},
		Short:   "Close every window and leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			d.quit = true
			return nil
		},
	}

	root.AddCommand(open, ls, focus, minimize, maximize, restore, click, move, closeWin, closeAll,
		edit, appendText, enter, table, find, next, prev, view, stats, saveAs, flush,
		rename, remove, sidebar, quit)
	return root
}

func (d *desk) list(cmd *cobra.Command) error {
	active := ""
	if w, ok := d.mgr.Active(); ok {
		active = w.SessionID
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.FormatWindows(d.mgr.Windows(), active))
	fmt.Fprint(out, ui.FormatTaskbar(d.mgr.Taskbar()))
	return nil
}

func (d *desk) step(cmd *cobra.Command, move func(*editor.Cursor) (editor.Match, bool)) error {
	if d.cursor == nil {
		return fmt.Errorf("no search yet: use find <win> <pattern>")
	}
	m, ok := move(d.cursor)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
		return nil
	}
	w, err := d.mgr.Window(d.cursorWin)
	if err != nil {
		return err
	}
	line, col := editor.CursorPosition(w.Content, m.Start)
	fmt.Fprintf(cmd.OutOrStdout(), "Line: %d, Column: %d\n", line, col)
	return nil
}

// pressEnter appends a newline, carrying list markers onto the new line.
// Enter on an empty list item clears the marker and leaves a blank line.
func pressEnter(content string) string {
	last := content[strings.LastIndexByte(content, '\n')+1:]
	prefix, end := editor.ContinueList(last)
	if end {
		return content[:len(content)-len(last)] + "\n"
	}
	return content + "\n" + prefix
}

func unescape(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}

// splitArgs splits a desk line into words with shell quoting rules.
// Backslashes survive inside single quotes, so '\n' reaches unescape intact.
func splitArgs(line string) ([]string, error) {
	return shellwords.Parse(line)
}

func init() {
	deskCmd.Flags().Duration("debounce", 0, "save-through delay for window edits (default from config)")
	rootCmd.AddCommand(deskCmd)
}
