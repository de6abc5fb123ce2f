package colours

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Color scheme for the installer output
var (
	Title   = color.New(color.FgCyan, color.Bold)
	Path    = color.New(color.FgMagenta)
	Error   = color.New(color.FgRed, color.Bold)
	Success = color.New(color.FgGreen)
	Info    = color.New(color.FgBlue)
	Warning = color.New(color.FgYellow)
)

// Stderr is where failures are reported
var Stderr io.Writer = os.Stderr

// Fail prints a failure line to Stderr.
func Fail(format string, a ...interface{}) {
	Error.Fprintf(Stderr, "❌ "+format+"\n", a...)
}
