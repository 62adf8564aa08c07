package sentence

import (
	"sort"
	"strings"
)

// Token represents a word of the sentence, with its POS tags.
type Token struct {
	Id   int    `json:"id"`
	Form string `json:"form"`

	// Coarse and fine POS tags, "_" when absent
	Upos string `json:"upos"`
	Xpos string `json:"xpos"`
}

// Edge is the dependency relation of one dependent token. It is stored keyed
// by the dependent id. Head 0 means the dependent is a sentence root.
type Edge struct {
	Head   int    `json:"head"`
	Deprel string `json:"deprel"`
}

// Sentence holds the tokens and edges of one annotated sentence.
//
// A Sentence is built once (by the conllu parser or the storage decoder) and
// must not be modified afterwards. An edge may point to a head that is not a
// token of the sentence (orphan head).
type Sentence struct {
	Tokens map[int]Token `json:"tokens"`
	Edges  map[int]Edge  `json:"edges"`
}

// Token returns the token with the given id.
func (s Sentence) Token(id int) (Token, bool) {
	t, ok := s.Tokens[id]
	return t, ok
}

// Edge returns the edge of the dependent dep.
func (s Sentence) Edge(dep int) (Edge, bool) {
	e, ok := s.Edges[dep]
	return e, ok
}

// TokenIds returns the token ids in ascending order.
func (s Sentence) TokenIds() []int {
	ids := make([]int, 0, len(s.Tokens))
	for id := range s.Tokens {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Text reconstructs the sentence text by joining the token forms in id order.
func (s Sentence) Text() string {
	forms := make([]string, 0, len(s.Tokens))
	for _, id := range s.TokenIds() {
		forms = append(forms, s.Tokens[id].Form)
	}
	return strings.TrimSpace(strings.Join(forms, " "))
}

// IsEmpty reports whether the sentence has neither tokens nor edges.
func (s Sentence) IsEmpty() bool {
	return len(s.Tokens) == 0 && len(s.Edges) == 0
}

// Annotator is one submission (usually one file) of annotated sentences.
type Annotator struct {
	// Display name, editable. Not guaranteed to be unique.
	Name string `json:"name"`

	// Source identifies where the sentences were read from (a file path).
	Source string `json:"source"`

	Sentences []Sentence `json:"sentences"`
}

// Sentence returns the sentence at index i, or an empty sentence if the
// annotator has fewer sentences.
func (a Annotator) Sentence(i int) Sentence {
	if i < 0 || i >= len(a.Sentences) {
		return Sentence{}
	}
	return a.Sentences[i]
}

// Document is a group of annotators over the same, index aligned, sequence of
// sentences.
type Document struct {
	Id    int    `json:"id"`
	Key   string `json:"key"`
	Label string `json:"label"`

	Annotators []Annotator `json:"annotators"`
}

// SentCount is the maximum number of sentences of the annotators.
func (d Document) SentCount() int {
	n := 0
	for _, a := range d.Annotators {
		if len(a.Sentences) > n {
			n = len(a.Sentences)
		}
	}
	return n
}

// Lookup returns the index of the annotator identified by key. The source is
// tried first, then the display name.
func (d Document) Lookup(key string) (int, bool) {
	if key == "" {
		return -1, false
	}

	for i, a := range d.Annotators {
		if a.Source == key {
			return i, true
		}
	}

	for i, a := range d.Annotators {
		if a.Name == key {
			return i, true
		}
	}

	return -1, false
}

// Names returns the display names of the annotators.
func (d Document) Names() []string {
	names := make([]string, len(d.Annotators))
	for i, a := range d.Annotators {
		names[i] = a.Name
	}
	return names
}

// Library is the collection of loaded documents.
type Library []Document

// Doc returns the document with the given id.
func (l Library) Doc(id int) (Document, bool) {
	for _, d := range l {
		if d.Id == id {
			return d, true
		}
	}
	return Document{}, false
}
