package archive

import (
	"context"
	"fmt"
	"log/slog"
)

// Severity grades a Diagnostic.
type Severity uint8

const (
	SeverityError   Severity = iota // the file blocks the load
	SeverityWarning                 // reported only
)

// String returns "Error" or "Warning".
func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Diagnostic is one parse or schema violation found in an archive file.
type Diagnostic struct {
	File     string
	Severity Severity
	Path     string // JSON Pointer into the document, empty for parse errors
	Message  string
}

// String renders the diagnostic the way it is printed to users.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s in file %s: %s", d.Severity, d.File, d.Message)
	if d.Path != "" {
		s += fmt.Sprintf(" (at %s)", d.Path)
	}
	return s
}

// Reporter receives diagnostics as validation proceeds.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// SlogReporter writes each diagnostic as a structured log record.
type SlogReporter struct {
	Logger *slog.Logger // nil means slog.Default()
}

// Report logs d at error level, or warn level for warnings.
func (r SlogReporter) Report(d Diagnostic) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelError
	if d.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, "archive file invalid",
		"file", d.File,
		"severity", d.Severity.String(),
		"path", d.Path,
		"message", d.Message,
	)
}
