package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/revelaction/goldtree/gold"
	"github.com/revelaction/goldtree/storage"
)

// goldRequest is the body of a gold merge. Options not given keep the
// server defaults.
type goldRequest struct {
	A       string       `json:"a"`
	B       string       `json:"b"`
	Options gold.Options `json:"options"`

	// Save stores the export when gold storage is configured
	Save bool `json:"save"`
}

type goldResponse struct {
	Id      int64        `json:"id,omitempty"`
	A       string       `json:"a"`
	B       string       `json:"b"`
	Options gold.Options `json:"options"`
	Summary gold.Summary `json:"summary"`
	Text    string       `json:"text"`
}

// handleGold merges two annotators. The CoNLL-U text is returned as
// text/plain, or wrapped in JSON with ?format=json.
func (s *Server) handleGold(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.doc(w, r)
	if !ok {
		return
	}

	req := goldRequest{Options: s.goldDefaults}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	out, err := gold.Generate(doc, req.A, req.B, req.Options)
	if err != nil {
		if gold.IsSelection(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "gold generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	text := out.String()
	resp := goldResponse{A: out.A, B: out.B, Options: out.Options, Summary: out.Summary(), Text: text}

	if req.Save {
		if s.golds == nil {
			jsonError(w, "gold storage is not configured", http.StatusNotImplemented)
			return
		}

		id, err := s.golds.WriteGold(r.Context(), storage.GoldRecord{
			DocId:   doc.Id,
			A:       out.A,
			B:       out.B,
			Options: out.Options.String(),
			Text:    text,
		})
		if err != nil {
			s.log.Error("failed to store gold", "doc", doc.Id, "error", err)
			jsonError(w, "failed to store gold: "+err.Error(), http.StatusInternalServerError)
			return
		}
		resp.Id = id
		w.Header().Set("X-Gold-Id", strconv.FormatInt(id, 10))
	}

	s.log.Info("gold generated", "doc", doc.Id, "a", out.A, "b", out.B, "mode", out.Options.Mode.String(), "sentences", len(out.Sentences))

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (s *Server) handleListGolds(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.doc(w, r)
	if !ok {
		return
	}

	if s.golds == nil {
		jsonError(w, "gold storage is not configured", http.StatusNotImplemented)
		return
	}

	golds, err := s.golds.Golds(r.Context(), doc.Id)
	if err != nil {
		jsonError(w, "failed to list golds: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"golds": golds})
}
