package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/goldtree/compare"
	sent "github.com/revelaction/goldtree/sentence"
)

// EdgeView is a union edge with its classification.
type EdgeView struct {
	Dep  int `json:"dep"`
	Head int `json:"head"`
	compare.EdgeStatus
}

// SentenceView is the serializable form of a comparison: the report, every
// classified edge and the rendered tree.
type SentenceView struct {
	Report compare.Report `json:"report"`
	Edges  []EdgeView     `json:"edges"`
	Tree   []string       `json:"tree"`
	Meta   string         `json:"meta"`
}

// View builds the SentenceView of rep. Colour is never applied.
func (r *Renderer) View(doc sent.Document, rep compare.Report) SentenceView {
	plain := *r
	plain.HasColor = false

	v := SentenceView{
		Report: rep,
		Edges:  make([]EdgeView, 0, len(rep.Union)),
		Tree:   plain.Tree(doc, rep),
		Meta:   plain.Meta(rep),
	}

	for _, e := range rep.Union {
		v.Edges = append(v.Edges, EdgeView{Dep: e.Dep, Head: e.Head, EdgeStatus: rep.Status(e)})
	}

	return v
}

// JSONRenderer writes comparisons as JSON to a writer.
type JSONRenderer struct {
	W io.Writer

	Renderer *Renderer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer, r *Renderer) *JSONRenderer {
	if r == nil {
		r = NewRenderer()
	}
	return &JSONRenderer{W: w, Renderer: r}
}

// Render serializes the SentenceView of rep.
func (j *JSONRenderer) Render(doc sent.Document, rep compare.Report) error {
	return json.NewEncoder(j.W).Encode(j.Renderer.View(doc, rep))
}

// RenderIndex serializes a sentence list as a JSON array.
func (j *JSONRenderer) RenderIndex(entries []compare.Entry) error {
	if entries == nil {
		entries = []compare.Entry{}
	}
	return json.NewEncoder(j.W).Encode(entries)
}

// DocView lists a document without its sentences.
type DocView struct {
	Id         int             `json:"id"`
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	Sentences  int             `json:"sentences"`
	Annotators []AnnotatorView `json:"annotators"`
}

type AnnotatorView struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Sentences int    `json:"sentences"`
}

// RenderLibrary serializes the document list of lib as a JSON array.
func (j *JSONRenderer) RenderLibrary(lib sent.Library) error {
	docs := make([]DocView, 0, len(lib))
	for _, d := range lib {
		v := DocView{Id: d.Id, Key: d.Key, Label: d.Label, Sentences: d.SentCount(), Annotators: []AnnotatorView{}}
		for _, a := range d.Annotators {
			v.Annotators = append(v.Annotators, AnnotatorView{Name: a.Name, Source: a.Source, Sentences: len(a.Sentences)})
		}
		docs = append(docs, v)
	}
	return json.NewEncoder(j.W).Encode(docs)
}
