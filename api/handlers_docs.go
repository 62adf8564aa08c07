package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/revelaction/goldtree/compare"
	"github.com/revelaction/goldtree/render"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/stat"
)

type docSummary struct {
	Id         int      `json:"id"`
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Annotators []string `json:"annotators"`
	Sentences  int      `json:"sentences"`
}

// handleListDocuments lists the documents of the library.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := []docSummary{}
	for _, d := range s.Library() {
		docs = append(docs, docSummary{
			Id:         d.Id,
			Key:        d.Key,
			Label:      d.Label,
			Annotators: d.Names(),
			Sentences:  d.SentCount(),
		})
	}

	writeJSON(w, map[string]any{"documents": docs})
}

// handleListSentences returns the sentence index of a document, filtered by
// the onlyDiff and q query parameters.
func (s *Server) handleListSentences(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.doc(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	entries := compare.Filter(compare.Index(doc), queryBool(q.Get("onlyDiff")), q.Get("q"))

	writeJSON(w, map[string]any{"sentences": entries})
}

func (s *Server) handleSentence(w http.ResponseWriter, r *http.Request) {
	doc, rep, ok := s.report(w, r)
	if !ok {
		return
	}

	writeJSON(w, s.renderer(r).View(doc, rep))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	doc, rep, ok := s.report(w, r)
	if !ok {
		return
	}

	rd := s.renderer(r)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n\n%s\n", rd.TreeString(doc, rep), rd.Meta(rep))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.doc(w, r)
	if !ok {
		return
	}

	h := stat.NewHandler()
	h.Aggregate(doc)
	writeJSON(w, h.Get())
}

// handleReload replaces the library with a fresh read of the corpus.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.load == nil {
		jsonError(w, "reload is not configured", http.StatusNotImplemented)
		return
	}

	lib, err := s.load(r.Context())
	if err != nil {
		s.log.Error("reload failed", "error", err)
		jsonError(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.lib.Store(&lib)
	s.log.Info("library reloaded", "documents", len(lib))
	writeJSON(w, map[string]any{"documents": len(lib)})
}

// doc resolves the docID URL parameter, writing the error response if it
// does not exist.
func (s *Server) doc(w http.ResponseWriter, r *http.Request) (sent.Document, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "docID"))
	if err != nil {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return sent.Document{}, false
	}

	doc, ok := s.Library().Doc(id)
	if !ok {
		jsonError(w, fmt.Sprintf("document %d not found", id), http.StatusNotFound)
		return sent.Document{}, false
	}

	return doc, true
}

// report compares the sentence {n}, 1 based.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (sent.Document, compare.Report, bool) {
	doc, ok := s.doc(w, r)
	if !ok {
		return sent.Document{}, compare.Report{}, false
	}

	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		jsonError(w, "invalid sentence number", http.StatusBadRequest)
		return sent.Document{}, compare.Report{}, false
	}

	if n < 1 || n > doc.SentCount() {
		jsonError(w, fmt.Sprintf("sentence %d not found, document has %d", n, doc.SentCount()), http.StatusNotFound)
		return sent.Document{}, compare.Report{}, false
	}

	return doc, compare.Compare(doc, n-1), true
}

func (s *Server) renderer(r *http.Request) *render.Renderer {
	q := r.URL.Query()
	return &render.Renderer{
		OnlyDiffEdges: queryBool(q.Get("onlyDiffEdges")),
		ShowPos:       queryBool(q.Get("showPos")),
	}
}

func queryBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
