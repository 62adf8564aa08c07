package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/revelaction/goldtree/compare"
	sent "github.com/revelaction/goldtree/sentence"
)

func TestJSONRendererRenderIndexEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf, nil)
	if err := r.RenderIndex(nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	var entries []compare.Entry
	if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected an empty array, got %q", buf.String())
	}
}

func TestJSONRendererRender(t *testing.T) {
	doc := newDoc(author{"anna", anna}, author{"ben", ben})

	var buf bytes.Buffer
	r := NewJSONRenderer(&buf, &Renderer{HasColor: true})
	if err := r.Render(doc, compare.Compare(doc, 0)); err != nil {
		t.Fatalf("render: %v", err)
	}

	var view struct {
		Report struct {
			Index          int      `json:"index"`
			Names          []string `json:"names"`
			MissingEdges   int      `json:"missing_edges"`
			LabelDiffEdges int      `json:"label_diff_edges"`
		} `json:"report"`
		Edges []struct {
			Dep  int    `json:"dep"`
			Head int    `json:"head"`
			Kind string `json:"kind"`
		} `json:"edges"`
		Tree []string `json:"tree"`
		Meta string   `json:"meta"`
	}
	if err := json.Unmarshal(buf.Bytes(), &view); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if view.Report.MissingEdges != 2 || view.Report.LabelDiffEdges != 1 {
		t.Errorf("unexpected counters %+v", view.Report)
	}

	if len(view.Edges) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(view.Edges))
	}

	if view.Edges[0].Dep != 1 || view.Edges[0].Head != 2 || view.Edges[0].Kind != "labelDiff" {
		t.Errorf("unexpected first edge %+v", view.Edges[0])
	}

	// colour is never serialized
	if view.Tree[2] != "🌱 2:eat" {
		t.Errorf("unexpected root line %q", view.Tree[2])
	}

	if view.Meta != "Annotators: 2 · Union: 4 · missing: 2 · label-diff: 1" {
		t.Errorf("unexpected meta %q", view.Meta)
	}
}

func TestJSONRendererRenderLibrary(t *testing.T) {
	doc := newDoc(author{"anna", anna}, author{"ben", ben})
	doc.Id = 7

	var buf bytes.Buffer
	if err := NewJSONRenderer(&buf, nil).RenderLibrary(sent.Library{doc}); err != nil {
		t.Fatalf("render: %v", err)
	}

	var docs []DocView
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(docs) != 1 || docs[0].Id != 7 || len(docs[0].Annotators) != 2 {
		t.Fatalf("unexpected docs %+v", docs)
	}

	if docs[0].Annotators[1].Name != "ben" || docs[0].Annotators[1].Sentences != len(doc.Annotators[1].Sentences) {
		t.Errorf("unexpected annotator %+v", docs[0].Annotators[1])
	}
}
