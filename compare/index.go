package compare

import (
	"strings"

	sent "github.com/revelaction/goldtree/sentence"
)

// EmptyText is shown for a sentence position where no annotator has tokens.
const EmptyText = "(empty)"

// Entry summarizes one sentence position of a document.
type Entry struct {
	// Index is 0 based
	Index          int    `json:"index"`
	Text           string `json:"text"`
	AnyTextDiff    bool   `json:"any_text_diff"`
	MissingEdges   int    `json:"missing_edges"`
	LabelDiffEdges int    `json:"label_diff_edges"`
}

func (e Entry) HasDiff() bool {
	return e.AnyTextDiff || e.MissingEdges > 0 || e.LabelDiffEdges > 0
}

// Index compares every sentence position of doc.
func Index(doc sent.Document) []Entry {
	n := doc.SentCount()
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		r := Compare(doc, i)
		text := r.BaseText()
		if text == "" {
			text = EmptyText
		}

		entries = append(entries, Entry{
			Index:          i,
			Text:           text,
			AnyTextDiff:    r.AnyTextDiff,
			MissingEdges:   r.MissingEdges,
			LabelDiffEdges: r.LabelDiffEdges,
		})
	}

	return entries
}

// Filter keeps the entries with a difference (if onlyDiff) whose text
// contains query, case insensitive. An empty query matches everything.
func Filter(entries []Entry, onlyDiff bool, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))

	kept := []Entry{}
	for _, e := range entries {
		if onlyDiff && !e.HasDiff() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Text), q) {
			continue
		}
		kept = append(kept, e)
	}

	return kept
}
