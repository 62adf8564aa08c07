package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/compare"
	"github.com/revelaction/goldtree/render"
)

func (a *app) treeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "show the union dependency tree of one sentence",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.IntFlag{Name: "sentence", Aliases: []string{"s"}, Usage: "sentence number, from 1", Required: true},
			&cli.BoolFlag{Name: "only-diff-edges", Usage: "hide the edges all annotators agree on"},
			&cli.BoolFlag{Name: "pos", Usage: "show the POS tags of the tokens"},
			&cli.BoolFlag{Name: "color", Usage: "colour the edge markers"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write the tree to a text file"},
		},
		Action: a.tree,
	}
}

func (a *app) tree(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	doc, err := selectDoc(c, crp.lib)
	if err != nil {
		return err
	}

	n := c.Int("sentence")
	if n < 1 || n > doc.SentCount() {
		return fmt.Errorf("sentence %d out of range 1-%d", n, doc.SentCount())
	}

	rep := compare.Compare(doc, n-1)

	r := render.NewRenderer()
	r.OnlyDiffEdges = c.Bool("only-diff-edges")
	r.ShowPos = c.Bool("pos")

	if c.Bool("json") {
		return render.NewJSONRenderer(a.ui.Out, r).Render(doc, rep)
	}

	if out := c.String("out"); out != "" {
		// the export file never carries colour
		text := r.TreeString(doc, rep) + "\n\n" + r.Meta(rep) + "\n"
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
		a.log.Info("tree written", "file", out, "doc", doc.Id, "sentence", n)
		return nil
	}

	r.HasColor = c.Bool("color")
	fmt.Fprintln(a.ui.Out, r.TreeString(doc, rep))
	fmt.Fprintln(a.ui.Out)
	fmt.Fprintln(a.ui.Out, r.Meta(rep))
	return nil
}
