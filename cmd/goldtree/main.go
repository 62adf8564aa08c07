package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/config"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

// app holds the state shared by the commands, set up before any of them
// runs.
type app struct {
	ui  UI
	cfg config.Config
	log *slog.Logger
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "goldtree: %v\n", err)
}

func newApp(ui UI) *cli.App {
	a := &app{ui: ui}

	return &cli.App{
		Name:      "goldtree",
		Usage:     "compare dependency annotations of several annotators and merge two of them into a gold CoNLL-U file",
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"GOLDTREE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cfg, ui.Err)
			return nil
		},
		Commands: []*cli.Command{
			a.lsCommand(),
			a.sentencesCommand(),
			a.treeCommand(),
			a.statCommand(),
			a.goldCommand(),
			a.importCommand(),
			a.renameCommand(),
			a.serveCommand(),
			a.mcpCommand(),
			a.reviewCommand(),
			a.versionCommand(),
		},
	}
}
