package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Logger provides leveled progress/diagnostic logging. Output goes to
// stderr so stdout stays clean for results and JSON.
type Logger struct {
	verbosity    VerbosityLevel
	writer       io.Writer
	startTime    time.Time
	isTTY        bool
	showProgress bool
	bar          *progressbar.ProgressBar
}

// NewLogger creates a logger with the specified verbosity writing to
// stderr. Progress bars are only drawn on a TTY.
func NewLogger(verbosity VerbosityLevel) *Logger {
	writer := os.Stderr
	isTTY := IsTTY(writer)
	return &Logger{
		verbosity:    verbosity,
		writer:       writer,
		startTime:    time.Now(),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// NewLoggerWithWriter creates a logger with a custom writer. Primarily used
// for testing; progress bars are disabled unless the writer is a TTY.
func NewLoggerWithWriter(verbosity VerbosityLevel, w io.Writer) *Logger {
	isTTY := IsTTY(w)
	return &Logger{
		verbosity:    verbosity,
		writer:       w,
		startTime:    time.Now(),
		isTTY:        isTTY,
		showProgress: isTTY,
	}
}

// Progress logs progress messages (shown in verbose and debug modes).
func (l *Logger) Progress(format string, args ...interface{}) {
	if l.verbosity >= VerbosityVerbose {
		fmt.Fprintf(l.writer, format+"\n", args...)
	}
}

// Debug logs diagnostics (shown only in debug mode), prefixed with elapsed
// time.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbosity >= VerbosityDebug {
		elapsed := time.Since(l.startTime).Round(time.Millisecond)
		fmt.Fprintf(l.writer, "[%s] %s\n", elapsed, fmt.Sprintf(format, args...))
	}
}

// Warning logs warnings (always shown).
func (l *Logger) Warning(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// Error logs errors (always shown).
func (l *Logger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.writer, "Error: %s\n", fmt.Sprintf(format, args...))
}

// StartProgress begins a progress bar over total units. On non-TTY writers
// this is a no-op.
func (l *Logger) StartProgress(total int, description string) {
	if !l.showProgress || total <= 0 {
		return
	}
	l.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(l.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
	)
}

// StepProgress advances the progress bar by one unit.
func (l *Logger) StepProgress() {
	if l.bar != nil {
		_ = l.bar.Add(1)
	}
}

// FinishProgress completes and clears the progress bar.
func (l *Logger) FinishProgress() {
	if l.bar != nil {
		_ = l.bar.Finish()
		l.bar = nil
	}
}
