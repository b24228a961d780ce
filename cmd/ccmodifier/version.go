package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ccmodifier/internal/version"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(stdout, version.Full())
		},
	}
}
