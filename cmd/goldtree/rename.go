package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/storage"
)

func (a *app) renameCommand() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "change the display name of an annotator in an sqlite corpus",
		ArgsUsage: "[corpus]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.StringFlag{Name: "annotator", Usage: "annotator, by source or name", Required: true},
			&cli.StringFlag{Name: "name", Usage: "new display name", Required: true},
		},
		Action: a.rename,
	}
}

func (a *app) rename(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, false)
	if err != nil {
		return err
	}
	defer crp.Close()

	if crp.repo == nil {
		return fmt.Errorf("rename needs an sqlite corpus: %w", storage.ErrReadOnly)
	}

	doc, err := selectDoc(c, crp.lib)
	if err != nil {
		return err
	}

	key := c.String("annotator")
	i, ok := doc.Lookup(key)
	if !ok {
		return fmt.Errorf("annotator %q: %w", key, storage.ErrNotFound)
	}

	if err := crp.repo.Rename(c.Context, doc.Id, doc.Annotators[i].Source, c.String("name")); err != nil {
		return err
	}

	fmt.Fprintf(a.ui.Out, "✍️  %s is now %s\n", doc.Annotators[i].Source, c.String("name"))
	return nil
}
