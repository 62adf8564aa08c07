package main

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/storage/sqlite/zombiezen"
)

func (a *app) importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import a corpus directory or CoNLL-U files into an sqlite database",
		ArgsUsage: "<corpus...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "sqlite database (default: the configured db)"},
		},
		Action: a.importDocs,
	}
}

func (a *app) importDocs(c *cli.Context) error {
	to := c.String("to")
	if to == "" {
		to = a.cfg.DB
	}
	if to == "" {
		return errors.New("no database given: use --to or set db in the configuration")
	}

	if c.NArg() == 0 {
		return errors.New("no corpus given")
	}

	src, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer src.Close()

	pool, err := zombiezen.Open(c.Context, to)
	if err != nil {
		return err
	}
	defer pool.Close()

	dst := zombiezen.NewDocStore(pool)

	p := uiprogress.New()
	p.SetOut(a.ui.Err)
	p.Start()
	bar := p.AddBar(len(src.lib))
	bar.AppendCompleted()
	bar.PrependElapsed()

	count := 0
	for _, doc := range src.lib {
		id, err := dst.Write(c.Context, doc)
		if err != nil {
			p.Stop()
			return fmt.Errorf("failed to write doc %s: %w", doc.Key, err)
		}
		a.log.Debug("doc imported", "key", doc.Key, "id", id, "annotators", len(doc.Annotators))
		count++
		bar.Incr()
	}
	p.Stop()

	fmt.Fprintf(a.ui.Out, "Successfully imported %d docs to %s\n", count, to)
	return nil
}
