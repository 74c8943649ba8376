package common

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Severity represents log message severity levels
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the logging contract shared by the generator and the viewer.
type Logger interface {
	// Log logs a message with the specified severity
	Log(severity Severity, msg string)

	// Logf logs a formatted message with the specified severity
	Logf(severity Severity, format string, args ...any)

	// Error logs an error
	Error(err error)

	Debug(msg string)
	Info(msg string)
	Warning(msg string)
}

// StdLogger implements Logger on top of the standard library logger.
// All severities share one writer: stdout belongs to the tool's output.
type StdLogger struct {
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	minLevel   Severity
}

// NewStdLogger creates a logger writing to stderr.
func NewStdLogger(minLevel Severity) *StdLogger {
	return NewStdLoggerWithWriter(os.Stderr, minLevel)
}

// NewStdLoggerWithWriter creates a logger writing to w.
func NewStdLoggerWithWriter(w io.Writer, minLevel Severity) *StdLogger {
	return &StdLogger{
		debugLog:   log.New(w, "DEBUG: ", log.Ltime|log.Lshortfile),
		infoLog:    log.New(w, "INFO: ", log.Ltime),
		warningLog: log.New(w, "WARNING: ", log.Ltime),
		errorLog:   log.New(w, "ERROR: ", log.Ltime|log.Lshortfile),
		minLevel:   minLevel,
	}
}

// Log logs a message with the specified severity
func (l *StdLogger) Log(severity Severity, msg string) {
	l.output(3, severity, msg)
}

// Logf logs a formatted message with the specified severity
func (l *StdLogger) Logf(severity Severity, format string, args ...any) {
	if severity < l.minLevel {
		return
	}
	l.output(3, severity, fmt.Sprintf(format, args...))
}

// Error logs an error
func (l *StdLogger) Error(err error) {
	if err != nil {
		l.output(3, SeverityError, err.Error())
	}
}

func (l *StdLogger) Debug(msg string) {
	l.output(3, SeverityDebug, msg)
}

func (l *StdLogger) Info(msg string) {
	l.output(3, SeverityInfo, msg)
}

func (l *StdLogger) Warning(msg string) {
	l.output(3, SeverityWarning, msg)
}

// output writes msg; depth counts frames up to the code that called the
// exported method, so Lshortfile names that caller.
func (l *StdLogger) output(depth int, severity Severity, msg string) {
	if severity < l.minLevel {
		return
	}

	switch severity {
	case SeverityDebug:
		l.debugLog.Output(depth, msg)
	case SeverityInfo:
		l.infoLog.Output(depth, msg)
	case SeverityWarning:
		l.warningLog.Output(depth, msg)
	case SeverityError:
		l.errorLog.Output(depth, msg)
	}
}

// NoOpLogger is a logger that doesn't log anything
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Log(severity Severity, msg string)                  {}
func (l *NoOpLogger) Logf(severity Severity, format string, args ...any) {}
func (l *NoOpLogger) Error(err error)                                    {}
func (l *NoOpLogger) Debug(msg string)                                   {}
func (l *NoOpLogger) Info(msg string)                                    {}
func (l *NoOpLogger) Warning(msg string)                                 {}
