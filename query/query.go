package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/goldtree/compare"
	"github.com/revelaction/goldtree/render"
	sent "github.com/revelaction/goldtree/sentence"
)

const (
	// searchPrefix is the character in the prompt that prefixes a text search
	searchPrefix = "/"
)

// Renamer persists an annotator display name.
type Renamer interface {
	Rename(ctx context.Context, docId int, source, name string) error
}

type CommandKind int

const (
	CmdGoto CommandKind = iota
	CmdNext
	CmdPrev
	CmdList
	CmdDiff
	CmdPos
	CmdSearch
	CmdRename
	CmdQuit
)

// Command is one parsed line of the review prompt.
type Command struct {
	Kind CommandKind

	// N is the 1 based sentence number of CmdGoto
	N int

	// Arg is the search text, the annotator of a rename, or "diff" for a
	// list of the disagreeing sentences only
	Arg string

	// Name is the new display name of a rename
	Name string
}

var commands = []prompt.Suggest{
	{Text: "n", Description: "next sentence"},
	{Text: "p", Description: "previous sentence"},
	{Text: "list", Description: "list sentences, 'list diff' only with disagreements"},
	{Text: "diff", Description: "toggle hiding agreed edges"},
	{Text: "pos", Description: "toggle POS display"},
	{Text: "rename", Description: "rename <annotator> <name>"},
	{Text: "quit", Description: "leave"},
}

type Handler struct {
	Doc      sent.Document
	Renderer *render.Renderer
	Renamer  Renamer
	Out      io.Writer

	// current sentence, 0 based
	cur int
}

func NewHandler(doc sent.Document, r *render.Renderer, rn Renamer, out io.Writer) *Handler {
	return &Handler{
		Doc:      doc,
		Renderer: r,
		Renamer:  rn,
		Out:      out,
	}
}

func (h *Handler) Run(ctx context.Context) error {

	fmt.Fprintln(h.Out, "🔑 Ctrl+F: toggle agreed edges, Ctrl+X: toggle POS, <number>: go to sentence, 🔧 quit")

	if h.Doc.SentCount() == 0 {
		return errors.New("document has no sentences")
	}

	h.show()

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input(fmt.Sprintf("S%d 🔖 ", h.cur+1), h.completer,
			prompt.OptionTitle("goldtree review"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.OnlyDiffEdges = !h.Renderer.OnlyDiffEdges
					fmt.Fprintf(h.Out, "Only diff edges set to %t\n", h.Renderer.OnlyDiffEdges)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.ShowPos = !h.Renderer.ShowPos
					fmt.Fprintf(h.Out, "POS set to %t\n", h.Renderer.ShowPos)
				}}),
		)

		if strings.TrimSpace(in) == "" {
			continue
		}

		history = append(history, in)

		cmd, err := Parse(in)
		if err != nil {
			fmt.Fprintf(h.Out, "❌ %v\n", err)
			continue
		}

		if cmd.Kind == CmdQuit {
			return nil
		}

		if err := h.Exec(ctx, cmd); err != nil {
			fmt.Fprintf(h.Out, "❌ %v\n", err)
		}
	}
}

// Exec runs one command and writes its output.
func (h *Handler) Exec(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CmdGoto:
		if cmd.N < 1 || cmd.N > h.Doc.SentCount() {
			return fmt.Errorf("sentence %d out of range 1-%d", cmd.N, h.Doc.SentCount())
		}
		h.cur = cmd.N - 1
		h.show()

	case CmdNext:
		if h.cur+1 >= h.Doc.SentCount() {
			return errors.New("already at the last sentence")
		}
		h.cur++
		h.show()

	case CmdPrev:
		if h.cur == 0 {
			return errors.New("already at the first sentence")
		}
		h.cur--
		h.show()

	case CmdList:
		h.list(compare.Filter(compare.Index(h.Doc), cmd.Arg == "diff", ""))

	case CmdSearch:
		h.list(compare.Filter(compare.Index(h.Doc), false, cmd.Arg))

	case CmdDiff:
		h.Renderer.OnlyDiffEdges = !h.Renderer.OnlyDiffEdges
		h.show()

	case CmdPos:
		h.Renderer.ShowPos = !h.Renderer.ShowPos
		h.show()

	case CmdRename:
		return h.rename(ctx, cmd.Arg, cmd.Name)
	}

	return nil
}

// Current returns the 0 based index of the shown sentence.
func (h *Handler) Current() int {
	return h.cur
}

func (h *Handler) show() {
	rep := compare.Compare(h.Doc, h.cur)
	fmt.Fprintln(h.Out, h.Renderer.TreeString(h.Doc, rep))
	fmt.Fprintln(h.Out)
	fmt.Fprintln(h.Out, h.Renderer.Meta(rep))
}

func (h *Handler) list(entries []compare.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(h.Out, "No sentences match the filters.")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(h.Out, h.Renderer.Entry(e))
	}
}

func (h *Handler) rename(ctx context.Context, key, name string) error {
	i, ok := h.Doc.Lookup(key)
	if !ok {
		return fmt.Errorf("annotator %q not found", key)
	}

	if h.Renamer != nil {
		if err := h.Renamer.Rename(ctx, h.Doc.Id, h.Doc.Annotators[i].Source, name); err != nil {
			return err
		}
	}

	// copy, the sentences are shared
	annotators := append([]sent.Annotator(nil), h.Doc.Annotators...)
	annotators[i].Name = name
	h.Doc.Annotators = annotators

	fmt.Fprintf(h.Out, "✍️  %s is now %s\n", key, name)
	return nil
}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	befCursor := in.TextBeforeCursor()
	if befCursor == "" {
		return []prompt.Suggest{}
	}

	tokens := strings.Split(befCursor, " ")
	if len(tokens) == 1 {
		return prompt.FilterHasPrefix(commands, tokens[0], true)
	}

	// annotator names after rename
	if tokens[0] == "rename" && len(tokens) == 2 {
		s := []prompt.Suggest{}
		for _, a := range h.Doc.Annotators {
			s = append(s, prompt.Suggest{Text: a.Name, Description: a.Source})
		}
		return prompt.FilterHasPrefix(s, tokens[1], true)
	}

	return []prompt.Suggest{}
}

// Parse parses one line of the review prompt.
func Parse(in string) (Command, error) {
	in = strings.TrimSpace(in)

	if strings.HasPrefix(in, searchPrefix) {
		q := strings.TrimSpace(strings.TrimPrefix(in, searchPrefix))
		if q == "" {
			return Command{}, errors.New("empty search")
		}
		return Command{Kind: CmdSearch, Arg: q}, nil
	}

	tokens := strings.Fields(in)
	if len(tokens) == 0 {
		return Command{}, errors.New("empty command")
	}

	if n, err := strconv.Atoi(tokens[0]); err == nil {
		if len(tokens) > 1 {
			return Command{}, fmt.Errorf("unexpected arguments after %d", n)
		}
		return Command{Kind: CmdGoto, N: n}, nil
	}

	switch tokens[0] {
	case "n", "next":
		return Command{Kind: CmdNext}, nil
	case "p", "prev":
		return Command{Kind: CmdPrev}, nil
	case "list", "ls":
		if len(tokens) > 1 && tokens[1] != "diff" {
			return Command{}, fmt.Errorf("unknown list filter %q", tokens[1])
		}
		cmd := Command{Kind: CmdList}
		if len(tokens) > 1 {
			cmd.Arg = tokens[1]
		}
		return cmd, nil
	case "diff":
		return Command{Kind: CmdDiff}, nil
	case "pos":
		return Command{Kind: CmdPos}, nil
	case "rename":
		if len(tokens) < 3 {
			return Command{}, errors.New("usage: rename <annotator> <name>")
		}
		return Command{Kind: CmdRename, Arg: tokens[1], Name: strings.Join(tokens[2:], " ")}, nil
	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q", tokens[0])
}
