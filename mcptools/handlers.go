package mcptools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/revelaction/goldtree/compare"
	"github.com/revelaction/goldtree/gold"
	"github.com/revelaction/goldtree/render"
	sent "github.com/revelaction/goldtree/sentence"
)

// GoldService holds the library served by the MCP tool handlers.
type GoldService struct {
	library  func() sent.Library
	defaults gold.Options
	log      *slog.Logger
}

// NewGoldService creates a GoldService. library is called on every tool
// call, so that a reloaded library is picked up.
func NewGoldService(library func() sent.Library, defaults gold.Options, log *slog.Logger) *GoldService {
	return &GoldService{library: library, defaults: defaults, log: log}
}

// ListDocuments returns the loaded documents with their annotators.
func (s *GoldService) ListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	out := ListDocumentsOutput{Documents: []DocumentInfo{}}
	for _, d := range s.library() {
		out.Documents = append(out.Documents, DocumentInfo{
			Id:         d.Id,
			Key:        d.Key,
			Label:      d.Label,
			Annotators: d.Names(),
			Sentences:  d.SentCount(),
		})
	}
	return nil, out, nil
}

// CompareSentence renders the annotator comparison of one sentence.
func (s *GoldService) CompareSentence(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareSentenceInput,
) (*mcp.CallToolResult, CompareSentenceOutput, error) {
	doc, err := s.doc(input.DocId)
	if err != nil {
		return nil, CompareSentenceOutput{}, err
	}

	if input.Sentence < 1 || input.Sentence > doc.SentCount() {
		return nil, CompareSentenceOutput{}, fmt.Errorf("sentence %d out of range, document has %d", input.Sentence, doc.SentCount())
	}

	rep := compare.Compare(doc, input.Sentence-1)
	r := &render.Renderer{OnlyDiffEdges: input.OnlyDiffEdges, ShowPos: input.ShowPos}

	return nil, CompareSentenceOutput{
		Tree:           r.Tree(doc, rep),
		Meta:           r.Meta(rep),
		UnionEdges:     len(rep.Union),
		MissingEdges:   rep.MissingEdges,
		LabelDiffEdges: rep.LabelDiffEdges,
		AnyTextDiff:    rep.AnyTextDiff,
	}, nil
}

// GenerateGold merges two annotators and returns the CoNLL-U export.
func (s *GoldService) GenerateGold(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateGoldInput,
) (*mcp.CallToolResult, GenerateGoldOutput, error) {
	doc, err := s.doc(input.DocId)
	if err != nil {
		return nil, GenerateGoldOutput{}, err
	}

	opts, err := s.options(input)
	if err != nil {
		return nil, GenerateGoldOutput{}, err
	}

	out, err := gold.Generate(doc, input.A, input.B, opts)
	if err != nil {
		return nil, GenerateGoldOutput{}, err
	}

	s.log.Info("gold generated", "doc", doc.Id, "a", out.A, "b", out.B, "mode", out.Options.Mode.String())

	return nil, GenerateGoldOutput{
		A:       out.A,
		B:       out.B,
		Options: out.Options.String(),
		Summary: out.Summary(),
		Text:    out.String(),
	}, nil
}

func (s *GoldService) doc(id int) (sent.Document, error) {
	doc, ok := s.library().Doc(id)
	if !ok {
		return sent.Document{}, fmt.Errorf("document %d not found", id)
	}
	return doc, nil
}

func (s *GoldService) options(in GenerateGoldInput) (gold.Options, error) {
	opts := s.defaults
	var err error

	if in.Mode != "" {
		if opts.Mode, err = gold.ParseMode(in.Mode); err != nil {
			return gold.Options{}, err
		}
	}
	if in.LabelMode != "" {
		if opts.LabelMode, err = gold.ParseSide(in.LabelMode); err != nil {
			return gold.Options{}, err
		}
	}
	if in.TokenMode != "" {
		if opts.TokenMode, err = gold.ParseSide(in.TokenMode); err != nil {
			return gold.Options{}, err
		}
	}
	if in.SentCount != "" {
		if opts.SentCountMode, err = gold.ParseSentCountMode(in.SentCount); err != nil {
			return gold.Options{}, err
		}
	}
	if in.IncludeComments != nil {
		opts.IncludeComments = *in.IncludeComments
	}
	if in.MarkMisc != nil {
		opts.MarkMisc = *in.MarkMisc
	}
	if in.FixOrphanHeads != nil {
		opts.FixOrphanHeads = *in.FixOrphanHeads
	}

	return opts, nil
}
