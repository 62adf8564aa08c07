package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Set by the linker at build time.
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

func (a *app) versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(a.ui.Out, "goldtree version %s (commit: %s)\n", BuildTag, BuildCommit)
			return err
		},
	}
}
