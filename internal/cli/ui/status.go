// Package ui formats terminal output for the contentkit CLI.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Success prints a green check line.
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, format string, args ...any) {
	warningColor.Fprint(w, "⚠ ")
	fmt.Fprintf(w, format+"\n", args...)
}

// Error prints a red error line.
func Error(w io.Writer, format string, args ...any) {
	errorColor.Fprint(w, "✗ ")
	fmt.Fprintf(w, format+"\n", args...)
}
