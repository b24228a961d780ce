package main

import (
	"fmt"
	"io"
	"os"

	"ccmodifier/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. Every
// failure is reported as one line on stdout.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(stdout, userMessage(err))
		return 1
	}
	return 0
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	if te, ok := errors.As(err); ok {
		switch te.Code {
		case errors.UsageError:
			if te.Unwrap() == nil {
				return te.Message
			}
		case errors.PathNotFound:
			return "Error: " + te.Message
		}
	}
	return "Error: " + err.Error()
}
