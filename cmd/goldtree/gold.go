package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/goldtree/gold"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
)

const defaultGoldFile = "gold.conllu"

func (a *app) goldCommand() *cli.Command {
	return &cli.Command{
		Name:      "gold",
		Usage:     "merge two annotators of a document into a gold CoNLL-U file",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.StringFlag{Name: "a", Usage: "annotator A, by source or name (default: the first annotator)"},
			&cli.StringFlag{Name: "b", Usage: "annotator B, by source or name (default: the second annotator)"},
			&cli.StringFlag{Name: "mode", Usage: "edge policy: " + strings.Join(gold.Modes(), ", ")},
			&cli.StringFlag{Name: "label-mode", Usage: "label tie-break, preferA or preferB"},
			&cli.StringFlag{Name: "token-mode", Usage: "token source, preferA or preferB"},
			&cli.StringFlag{Name: "sent-count", Usage: "number of sentences, max or min"},
			&cli.BoolFlag{Name: "comments", Usage: "write sent_id, text and gold_* comment lines"},
			&cli.BoolFlag{Name: "misc", Usage: "write the conflict tags in the MISC column"},
			&cli.BoolFlag{Name: "fix-orphans", Usage: "attach edges with a missing head to the root"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: defaultGoldFile, Usage: "output file, - for stdout"},
			&cli.BoolFlag{Name: "save", Usage: "store the export in the sqlite corpus"},
		},
		Action: a.gold,
	}
}

func (a *app) gold(c *cli.Context) error {
	opts, err := a.goldOptions(c)
	if err != nil {
		return err
	}

	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	if c.Bool("save") && crp.golds == nil {
		return fmt.Errorf("gold --save needs an sqlite corpus: %w", storage.ErrReadOnly)
	}

	doc, err := selectDoc(c, crp.lib)
	if err != nil {
		return err
	}

	annA, annB := selection(c, doc)

	out, err := gold.Generate(doc, annA, annB, opts)
	if err != nil {
		return err
	}

	text := out.String()

	if path := c.String("out"); path == "-" {
		if _, err := fmt.Fprint(a.ui.Out, text); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("IO error: %w", err)
		}
		sum := out.Summary()
		fmt.Fprintf(a.ui.Out, "🏅 %s: %d sentences, %d tokens, %d conflicts (%s | %s, %s)\n",
			path, sum.Sentences, sum.Tokens, sum.Conflicts, out.A, out.B, opts.String())
	}

	if c.Bool("save") {
		id, err := crp.golds.WriteGold(c.Context, storage.GoldRecord{
			DocId:   doc.Id,
			A:       out.A,
			B:       out.B,
			Options: opts.String(),
			Text:    text,
		})
		if err != nil {
			return err
		}
		a.log.Info("gold saved", "id", id, "doc", doc.Id)
	}

	return nil
}

// goldOptions applies the gold flags over the configured defaults.
func (a *app) goldOptions(c *cli.Context) (gold.Options, error) {
	g := a.cfg.Gold

	if c.IsSet("mode") {
		g.Mode = c.String("mode")
	}
	if c.IsSet("label-mode") {
		g.LabelMode = c.String("label-mode")
	}
	if c.IsSet("token-mode") {
		g.TokenMode = c.String("token-mode")
	}
	if c.IsSet("sent-count") {
		g.SentCount = c.String("sent-count")
	}
	if c.IsSet("comments") {
		g.IncludeComments = c.Bool("comments")
	}
	if c.IsSet("misc") {
		g.MarkMisc = c.Bool("misc")
	}
	if c.IsSet("fix-orphans") {
		g.FixOrphanHeads = c.Bool("fix-orphans")
	}

	cfg := a.cfg
	cfg.Gold = g
	return cfg.GoldOptions()
}

// selection returns the --a and --b annotators, defaulting to the first two
// annotators of doc.
func selection(c *cli.Context, doc sent.Document) (string, string) {
	annA, annB := c.String("a"), c.String("b")
	if annA == "" && len(doc.Annotators) > 0 {
		annA = doc.Annotators[0].Source
	}
	if annB == "" && len(doc.Annotators) > 1 {
		annB = doc.Annotators[1].Source
	}
	return annA, annB
}
