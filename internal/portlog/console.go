package portlog

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// consoleSink adapts a charmbracelet/log.Logger to the Logger port. It
// backs the dev-friendly colorized console sink, grounded on the
// log.NewWithOptions(..., log.Options{ReportTimestamp, TimeFormat, Prefix})
// construction used throughout the teacher's TUI/display code.
type consoleSink struct {
	log *log.Logger
}

// NewConsole returns a Logger port implementation that writes leveled,
// lipgloss-styled output to w (typically os.Stderr).
func NewConsole(w io.Writer) Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetStyles(decisionStyles())
	return consoleSink{log: logger}
}

// decisionStyles extends log.DefaultStyles with a styled "kind" value so
// decision-making entries (no native charmbracelet/log level) stand out
// from ordinary info lines at a glance.
func decisionStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Values["kind"] = lipgloss.NewStyle().
		Foreground(lipgloss.Color("212")).
		Bold(true)
	return styles
}

func (s consoleSink) Error(msg string, kv ...any) {
	s.log.Error(msg, kv...)
}

func (s consoleSink) Info(msg string, kv ...any) {
	s.log.Info(msg, kv...)
}

// DecisionMaking logs at info level tagged kind=decision; see decisionStyles.
func (s consoleSink) DecisionMaking(msg string, kv ...any) {
	s.log.Info(msg, append([]any{"kind", "decision"}, kv...)...)
}

// Verbose maps to charmbracelet/log's Debug level; there's no level
// between info and debug in its scheme.
func (s consoleSink) Verbose(msg string, kv ...any) {
	s.log.Debug(msg, kv...)
}

func (s consoleSink) Debug(msg string, kv ...any) {
	s.log.Debug(msg, kv...)
}

// NewDefaultConsole is a convenience constructor for a console Logger on
// stderr. cmd/simulate has no logger-selection option; it builds its
// console Logger with NewConsole directly.
func NewDefaultConsole() Logger {
	return NewConsole(os.Stderr)
}

var _ Logger = consoleSink{}
