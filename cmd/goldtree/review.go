package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/query"
	"github.com/revelaction/goldtree/render"
)

func (a *app) reviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "review",
		Usage:     "browse the sentences of a document interactively",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.BoolFlag{Name: "no-color", Usage: "do not colour the edge markers"},
		},
		Action: a.review,
	}
}

func (a *app) review(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	doc, err := selectDoc(c, crp.lib)
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.HasColor = !c.Bool("no-color")

	// renames are only persisted by sqlite corpora
	var rn query.Renamer
	if crp.repo != nil {
		rn = crp.repo
	}

	return query.NewHandler(doc, r, rn, a.ui.Out).Run(c.Context)
}
