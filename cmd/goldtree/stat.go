package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/stat"
)

func (a *app) statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "show agreement statistics of the corpus or of one document",
		ArgsUsage: "[corpus...]",
		Flags: []cli.Flag{
			docFlag(),
			&cli.BoolFlag{Name: "json", Usage: "print JSON"},
		},
		Action: a.stat,
	}
}

func (a *app) stat(c *cli.Context) error {
	crp, err := openCorpus(c.Context, c.Args().Slice(), a.cfg, a.ui, true)
	if err != nil {
		return err
	}
	defer crp.Close()

	docs := crp.lib
	if c.IsSet("doc") {
		doc, err := selectDoc(c, crp.lib)
		if err != nil {
			return err
		}
		docs = sent.Library{doc}
	}

	hdl := stat.NewHandler()
	for _, doc := range docs {
		hdl.Aggregate(doc)
	}
	stats := hdl.Get()

	if c.Bool("json") {
		return json.NewEncoder(a.ui.Out).Encode(stats)
	}

	fmt.Fprintf(a.ui.Out, "Documents %d, annotators %d, sentences %d, tokens %d\n", stats.NumDocuments, stats.NumAnnotators, stats.NumSentences, stats.NumTokens)
	fmt.Fprintf(a.ui.Out, "Union edges %d, agreed %d, missing %d, label-diff %d\n", stats.UnionEdges, stats.AgreedEdges, stats.MissingEdges, stats.LabelDiffEdges)
	fmt.Fprintf(a.ui.Out, "Sentences with disagreement %d, with text differences %d\n", stats.DiffSentences, stats.TextDiffSentences)
	fmt.Fprintf(a.ui.Out, "Agreement %.1f%%\n", stats.Agreement*100)

	lengths := make([]int, 0, len(stats.TokensPerSentenceDis))
	for l := range stats.TokensPerSentenceDis {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	for _, l := range lengths {
		fmt.Fprintf(a.ui.Out, "%4d tokens: %d\n", l, stats.TokensPerSentenceDis[l])
	}

	return nil
}
