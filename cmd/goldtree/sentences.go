package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/compare"
	"github.com/revelaction/goldtree/render"
)

func (a *app) sentencesCommand() *cli.Command {
	return &cli.Command{
		Name:      "sentences",
		Usage:     "list the sentences of a document with their disagreement badges",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.BoolFlag{Name: "only-diff", Usage: "only sentences with a disagreement"},
			&cli.StringFlag{Name: "q", Usage: "only sentences containing the text"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: a.sentences,
	}
}

func (a *app) sentences(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	doc, err := selectDoc(c, crp.lib)
	if err != nil {
		return err
	}

	entries := compare.Filter(compare.Index(doc), c.Bool("only-diff"), c.String("q"))

	r := render.NewRenderer()
	if c.Bool("json") {
		return render.NewJSONRenderer(a.ui.Out, r).RenderIndex(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.ui.Out, "No sentences match the filters.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintln(a.ui.Out, r.Entry(e))
	}

	return nil
}
