package stat

import (
	"github.com/revelaction/goldtree/compare"
	sent "github.com/revelaction/goldtree/sentence"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocuments  int `json:"num_documents"`
	NumAnnotators int `json:"num_annotators"`
	NumSentences  int `json:"num_sentences"`

	// NumTokens counts the tokens of every annotator
	NumTokens int `json:"num_tokens"`

	UnionEdges     int `json:"union_edges"`
	MissingEdges   int `json:"missing_edges"`
	LabelDiffEdges int `json:"label_diff_edges"`
	AgreedEdges    int `json:"agreed_edges"`

	DiffSentences     int `json:"diff_sentences"`
	TextDiffSentences int `json:"text_diff_sentences"`

	// Agreement is AgreedEdges / UnionEdges, 1 without edges
	Agreement float64 `json:"agreement"`

	// TokensPerSentenceDis maps the sentence length to the number of
	// annotator sentences with that length
	TokensPerSentenceDis map[int]int `json:"tokens_per_sentence"`
}

func (h *Handler) Get() Stats {
	s := h.stats
	s.Agreement = 1
	if s.UnionEdges > 0 {
		s.Agreement = float64(s.AgreedEdges) / float64(s.UnionEdges)
	}
	return s
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the counts of doc. It may be called for several documents.
func (h *Handler) Aggregate(doc sent.Document) {
	h.stats.NumDocuments++
	h.stats.NumAnnotators += len(doc.Annotators)

	for _, a := range doc.Annotators {
		for _, s := range a.Sentences {
			h.stats.NumTokens += len(s.Tokens)
			h.stats.TokensPerSentenceDis[len(s.Tokens)]++
		}
	}

	n := doc.SentCount()
	h.stats.NumSentences += n
	for i := 0; i < n; i++ {
		r := compare.Compare(doc, i)
		h.stats.UnionEdges += len(r.Union)
		h.stats.MissingEdges += r.MissingEdges
		h.stats.LabelDiffEdges += r.LabelDiffEdges
		h.stats.AgreedEdges += r.AgreedEdges()

		if r.HasDiff() {
			h.stats.DiffSentences++
		}
		if r.AnyTextDiff {
			h.stats.TextDiffSentences++
		}
	}
}
