// Package cmd provides small command line utilities shared by hastemap's
// binaries, grounded on the teacher's top-level cmd package
// (cmd/cobra.go, cmd/error.go in the original Mutagen source tree).
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Warning prints a warning message to standard error.
func Warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// Error prints an error message to standard error.
func Error(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// Fatal prints an error message to standard error and then terminates the
// process with an error exit code.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}

// Mainify wraps a non-standard Cobra entry point (one returning an error)
// and generates a standard Cobra entry point. This lets an entry point rely
// on defer-based cleanup, which wouldn't run if it terminated the process
// directly.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}
