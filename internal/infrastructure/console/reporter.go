package console

import (
	"fmt"
	"io"
	"os"

	"factsift/internal/ports"
)

// Reporter prints pipeline status lines for interactive runs.
type Reporter struct {
	out io.Writer
}

var _ ports.StatusReporter = (*Reporter)(nil)

// NewReporter writes to out, falling back to stdout when out is nil.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

// Info prints a neutral status line.
func (r *Reporter) Info(msg string) {
	r.line("INFO", msg)
}

// Success prints a completion status line.
func (r *Reporter) Success(msg string) {
	r.line("SUCCESS", msg)
}

// Warning prints a non-fatal problem.
func (r *Reporter) Warning(msg string) {
	r.line("WARNING", msg)
}

// Error prints a fatal problem.
func (r *Reporter) Error(msg string) {
	r.line("ERROR", msg)
}

// Progress prints a counter line for long stages.
func (r *Reporter) Progress(stage string, current, total int, detail string) {
	fmt.Fprintf(r.out, "[%d/%d] %s: %s\n", current, total, stage, detail)
}

func (r *Reporter) line(label, msg string) {
	fmt.Fprintf(r.out, "%s: %s\n", label, msg)
}
