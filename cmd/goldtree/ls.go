package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/render"
)

func (a *app) lsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "list the documents of a corpus with their annotators",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: a.ls,
	}
}

func (a *app) ls(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	if c.Bool("json") {
		return render.NewJSONRenderer(a.ui.Out, render.NewRenderer()).RenderLibrary(crp.lib)
	}

	for _, doc := range crp.lib {
		fmt.Fprintf(a.ui.Out, "📖 %d %s (%d annotators, %d sentences)\n", doc.Id, doc.Label, len(doc.Annotators), doc.SentCount())
		for _, an := range doc.Annotators {
			fmt.Fprintf(a.ui.Out, "   ✍️  %-12s %4d %s\n", an.Name, len(an.Sentences), an.Source)
		}
	}

	return nil
}
