// ABOUTME: Application logger construction on top of charmbracelet/log.
// ABOUTME: Also adapts the logger to badger's Logger interface.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a leveled logger writing to w. An unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "mdesk",
		Level:           lvl,
		ReportTimestamp: lvl <= log.DebugLevel,
	})
}

// Discard returns a logger that drops everything. Used as the zero-value default.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Badger forwards badger's printf-style logging into l. Badger is chatty at info,
// so its info lines are demoted to debug.
type Badger struct {
	l *log.Logger
}

func NewBadger(l *log.Logger) *Badger {
	return &Badger{l: l.WithPrefix("badger")}
}

func (b *Badger) Errorf(format string, args ...interface{}) {
	b.l.Error(trim(format, args))
}

func (b *Badger) Warningf(format string, args ...interface{}) {
	b.l.Warn(trim(format, args))
}

func (b *Badger) Infof(format string, args ...interface{}) {
	b.l.Debug(trim(format, args))
}

func (b *Badger) Debugf(format string, args ...interface{}) {
	b.l.Debug(trim(format, args))
}

func trim(format string, args []interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
