// Package printer formats command line output.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a message in green with a checkmark prefix.
func Success(w io.Writer, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprint(w, msg)
}

// Info prints a message in the default colour.
func Info(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, format, a...)
}

// Warning prints a message in yellow.
func Warning(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "! %s", fmt.Sprintf(format, a...))
}

// Step prints a step of a longer operation.
func Step(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, "→ %s", fmt.Sprintf(format, a...))
}

// Error prints a title, explanation and suggestions to w and returns a
// plain error for cobra, which is configured not to print it again.
func Error(w io.Writer, title, explanation string, suggestions ...string) error {
	red.Fprintf(w, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(w, "%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}
