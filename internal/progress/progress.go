// Package progress reports packaging status and warnings to a
// human-readable stream.
package progress

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter receives status and warning notifications during a
// Packager.Package run. Modeling it as an interface, rather than
// calling a logger directly, lets the packager core stay silent in
// tests while a real CLI run gets colorized terminal output.
type Reporter interface {
	// Status reports routine progress, e.g. a bare name being resolved
	// or a new library being added.
	Status(format string, args ...any)
	// Warnf reports a recoverable anomaly that does not abort the run,
	// e.g. an unresolvable collision that was skipped.
	Warnf(format string, args ...any)
}

// Noop discards every report. It is the default Reporter and the one
// most of the packager's own tests run with.
type Noop struct{}

func (Noop) Status(string, ...any) {}
func (Noop) Warnf(string, ...any)  {}

// Color writes status lines in cyan and warnings in yellow, bold, to
// Out (os.Stdout if nil).
type Color struct {
	Out io.Writer
}

func (c Color) Status(format string, args ...any) {
	w := c.writer()
	color.New(color.FgCyan).Fprintf(w, format+"\n", args...)
}

func (c Color) Warnf(format string, args ...any) {
	w := c.writer()
	color.New(color.FgYellow, color.Bold).Fprintf(w, "warning: "+format+"\n", args...)
}

func (c Color) writer() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return color.Output
}

var _ Reporter = Noop{}
var _ Reporter = Color{}

// Errorf is a small convenience used by callers that want to both
// report a warning and build a wrapped error from the same message.
func Errorf(r Reporter, format string, args ...any) error {
	r.Warnf(format, args...)
	return fmt.Errorf(format, args...)
}
