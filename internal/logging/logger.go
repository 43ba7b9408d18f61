// Package logging wires the commonlog backend and provides the verbose
// decision logger used by the generator pipeline.
package logging

import (
	"fmt"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Configure sets the global verbosity and log destination. An empty path
// logs to stderr.
func Configure(verbosity int, path string) {
	var p *string
	if path != "" {
		p = &path
	}
	commonlog.Configure(verbosity, p)
}

// Logger provides verbose output for pipeline decisions.
type Logger struct {
	enabled bool
	log     commonlog.Logger
}

// NewLogger returns a logger for the named subsystem. Verbose messages are
// only emitted when enabled is set.
func NewLogger(name string, enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		log:     commonlog.GetLogger("regsynth." + name),
	}
}

// Log prints a formatted message if verbose mode is enabled.
func (l *Logger) Log(format string, args ...any) {
	if l != nil && l.enabled {
		l.log.Debugf(format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	if l != nil && l.enabled {
		l.log.Info(fmt.Sprintf("=== %s ===", name))
	}
}

// Infof always logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	if l != nil {
		l.log.Infof(format, args...)
	}
}

// Warningf always logs at warning level.
func (l *Logger) Warningf(format string, args ...any) {
	if l != nil {
		l.log.Warningf(format, args...)
	}
}

// Errorf always logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	if l != nil {
		l.log.Errorf(format, args...)
	}
}

// Enabled returns whether verbose output is enabled.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}
