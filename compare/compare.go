// Package compare computes the differences between the annotators of a
// document for one sentence: the union of their dependency edges, the tree
// built from it and the disagreement counters.
package compare

import (
	"sort"

	sent "github.com/revelaction/goldtree/sentence"
)

// UnionEdge is a (dependent, head) pair present in at least one annotator.
// Labels are not part of the key.
type UnionEdge struct {
	Dep  int `json:"dep"`
	Head int `json:"head"`
}

// Report is the comparison of all annotators of a document for one sentence.
// It is derived data: recompute it, do not store it.
type Report struct {
	// Index is the 0 based sentence position in the document
	Index int `json:"index"`

	Names     []string        `json:"names"`
	Sentences []sent.Sentence `json:"-"`

	Union    []UnionEdge   `json:"union"`
	Children map[int][]int `json:"-"`
	Roots    []int         `json:"roots"`

	Texts          []string `json:"texts"`
	AnyTextDiff    bool     `json:"any_text_diff"`
	MissingEdges   int      `json:"missing_edges"`
	LabelDiffEdges int      `json:"label_diff_edges"`
}

// Compare builds the Report for the sentence idx of doc. Annotators with
// fewer sentences contribute an empty sentence.
func Compare(doc sent.Document, idx int) Report {
	r := Report{
		Index:     idx,
		Names:     doc.Names(),
		Sentences: make([]sent.Sentence, len(doc.Annotators)),
		Children:  map[int][]int{},
	}

	for i, a := range doc.Annotators {
		r.Sentences[i] = a.Sentence(idx)
	}

	r.Union = union(r.Sentences)

	nodes := map[int]bool{}
	incoming := map[int]bool{}
	for _, e := range r.Union {
		r.Children[e.Head] = append(r.Children[e.Head], e.Dep)
		nodes[e.Dep] = true
		if e.Head != 0 {
			nodes[e.Head] = true
			incoming[e.Dep] = true
		}
	}

	for _, deps := range r.Children {
		sort.Ints(deps)
	}

	r.Roots = roots(nodes, incoming)

	distinct := map[string]bool{}
	for _, s := range r.Sentences {
		text := s.Text()
		r.Texts = append(r.Texts, text)
		if text != "" {
			distinct[text] = true
		}
	}
	r.AnyTextDiff = len(distinct) > 1

	for _, e := range r.Union {
		switch r.Status(e).Kind {
		case Partial:
			r.MissingEdges++
		case LabelDiff:
			r.LabelDiffEdges++
		}
	}

	return r
}

// union returns the distinct (dep, head) pairs sorted by dep, then head.
func union(sentences []sent.Sentence) []UnionEdge {
	seen := map[UnionEdge]bool{}
	edges := []UnionEdge{}
	for _, s := range sentences {
		for dep, e := range s.Edges {
			ue := UnionEdge{Dep: dep, Head: e.Head}
			if seen[ue] {
				continue
			}
			seen[ue] = true
			edges = append(edges, ue)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Dep != edges[j].Dep {
			return edges[i].Dep < edges[j].Dep
		}
		return edges[i].Head < edges[j].Head
	})

	return edges
}

// roots returns the nodes without incoming edges. When every node has one (a
// cycle without entry), the smallest node is used so that a traversal always
// has a starting point.
func roots(nodes, incoming map[int]bool) []int {
	rs := []int{}
	for n := range nodes {
		if !incoming[n] {
			rs = append(rs, n)
		}
	}
	sort.Ints(rs)

	if len(rs) > 0 || len(nodes) == 0 {
		return rs
	}

	min := 0
	first := true
	for n := range nodes {
		if first || n < min {
			min = n
			first = false
		}
	}

	return []int{min}
}

// AgreedEdges is the number of union edges present in all annotators with the
// same label.
func (r Report) AgreedEdges() int {
	return len(r.Union) - r.MissingEdges - r.LabelDiffEdges
}

// BaseText is the first non empty reconstructed text.
func (r Report) BaseText() string {
	for _, t := range r.Texts {
		if t != "" {
			return t
		}
	}
	return ""
}

func (r Report) HasDiff() bool {
	return r.AnyTextDiff || r.MissingEdges > 0 || r.LabelDiffEdges > 0
}
