package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/goldtree/config"
	"github.com/revelaction/goldtree/conllu"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
)

const anna = "1\tCats\t_\tNOUN\t_\t_\t2\tnsubj\t_\t_\n" +
	"2\teat\t_\tVERB\t_\t_\t0\troot\t_\t_\n" +
	"\n" +
	"1\tYes\t_\tINTJ\t_\t_\t0\troot\t_\t_\n"

const ben = "1\tCats\t_\tNOUN\t_\t_\t2\tsubj\t_\t_\n" +
	"2\teat\t_\tVERB\t_\t_\t0\troot\t_\t_\n" +
	"\n" +
	"1\tYes\t_\tINTJ\t_\t_\t0\troot\t_\t_\n"

func library() sent.Library {
	return sent.Library{{
		Id:    0,
		Key:   "text1",
		Label: "text1",
		Annotators: []sent.Annotator{
			{Name: "anna", Source: "text1/anna.conllu", Sentences: conllu.Parse(anna)},
			{Name: "ben", Source: "text1/ben.conllu", Sentences: conllu.Parse(ben)},
		},
	}}
}

type memGolds struct {
	records []storage.GoldRecord
}

func (m *memGolds) WriteGold(ctx context.Context, g storage.GoldRecord) (int64, error) {
	g.Id = int64(len(m.records) + 1)
	m.records = append(m.records, g)
	return g.Id, nil
}

func (m *memGolds) Golds(ctx context.Context, docId int) ([]storage.GoldRecord, error) {
	return m.records, nil
}

func newServer(t *testing.T, load Loader, golds storage.GoldWriter) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(library(), load, golds, log, config.Load())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(t, nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDocuments(t *testing.T) {
	rec := do(t, newServer(t, nil, nil), http.MethodGet, "/api/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Documents []docSummary `json:"documents"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Documents, 1)
	assert.Equal(t, []string{"anna", "ben"}, body.Documents[0].Annotators)
	assert.Equal(t, 2, body.Documents[0].Sentences)
}

func TestListSentences(t *testing.T) {
	s := newServer(t, nil, nil)

	var body struct {
		Sentences []struct {
			Index          int    `json:"index"`
			Text           string `json:"text"`
			LabelDiffEdges int    `json:"label_diff_edges"`
		} `json:"sentences"`
	}

	rec := do(t, s, http.MethodGet, "/api/docs/0/sentences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	assert.Len(t, body.Sentences, 2)

	rec = do(t, s, http.MethodGet, "/api/docs/0/sentences?onlyDiff=true", "")
	decode(t, rec, &body)
	require.Len(t, body.Sentences, 1)
	assert.Equal(t, 1, body.Sentences[0].LabelDiffEdges)

	rec = do(t, s, http.MethodGet, "/api/docs/0/sentences?q=YES", "")
	decode(t, rec, &body)
	require.Len(t, body.Sentences, 1)
	assert.Equal(t, 1, body.Sentences[0].Index)
}

func TestSentence(t *testing.T) {
	s := newServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/docs/0/sentences/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Tree []string `json:"tree"`
		Meta string   `json:"meta"`
	}
	decode(t, rec, &view)
	assert.Equal(t, "📝 S1: Cats eat", view.Tree[0])
	assert.Contains(t, view.Meta, "label-diff: 1")

	rec = do(t, s, http.MethodGet, "/api/docs/0/sentences/1/tree?showPos=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "🌱 2:eat[{VERB|_}]")
	assert.Contains(t, rec.Body.String(), "⚠️ anna:nsubj | ben:subj → 1:Cats")
}

func TestNotFound(t *testing.T) {
	s := newServer(t, nil, nil)

	tests := []struct {
		path string
		code int
	}{
		{"/api/docs/7/sentences", http.StatusNotFound},
		{"/api/docs/x/sentences", http.StatusBadRequest},
		{"/api/docs/0/sentences/0", http.StatusNotFound},
		{"/api/docs/0/sentences/3", http.StatusNotFound},
		{"/api/docs/0/sentences/one", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, tt.path, "")
		assert.Equal(t, tt.code, rec.Code, tt.path)

		var body map[string]string
		decode(t, rec, &body)
		assert.NotEmpty(t, body["error"], tt.path)
	}
}

func TestStats(t *testing.T) {
	rec := do(t, newServer(t, nil, nil), http.MethodGet, "/api/docs/0/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st struct {
		NumSentences   int `json:"num_sentences"`
		LabelDiffEdges int `json:"label_diff_edges"`
	}
	decode(t, rec, &st)
	assert.Equal(t, 2, st.NumSentences)
	assert.Equal(t, 1, st.LabelDiffEdges)
}

func TestGold(t *testing.T) {
	s := newServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/docs/0/gold", `{"a":"anna","b":"ben","options":{"label_mode":"preferB"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	text := rec.Body.String()
	assert.Contains(t, text, "# gold_from = anna | ben\n")
	assert.Contains(t, text, "# gold_mode = unionPreferA; label=preferB; tokens=preferA; sentCount=max\n")
	assert.Contains(t, text, "1\tCats\t_\tNOUN\t_\t_\t2\tsubj\t_\tGold=labeldiff\n")
}

func TestGoldJSON(t *testing.T) {
	golds := &memGolds{}
	s := newServer(t, nil, golds)

	rec := do(t, s, http.MethodPost, "/api/docs/0/gold?format=json", `{"a":"ben","b":"anna","options":{"mode":"strictAgree"},"save":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Gold-Id"))

	var resp struct {
		Id      int64 `json:"id"`
		Summary struct {
			Conflicts int `json:"conflicts"`
		} `json:"summary"`
		Text string `json:"text"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, int64(1), resp.Id)
	assert.Equal(t, 1, resp.Summary.Conflicts)
	require.Len(t, golds.records, 1)
	assert.Equal(t, resp.Text, golds.records[0].Text)

	rec = do(t, s, http.MethodGet, "/api/docs/0/golds", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGoldSelectionError(t *testing.T) {
	s := newServer(t, nil, nil)

	tests := []struct {
		body string
		want string
	}{
		{`{"a":"anna","b":"anna"}`, "must be different"},
		{`{"a":"anna"}`, "two annotators"},
		{`{"a":"anna","b":"zed"}`, "not found"},
		{`{"a":"anna","b":"ben","options":{"mode":"union"}}`, "invalid request body"},
	}

	for _, tt := range tests {
		rec := do(t, s, http.MethodPost, "/api/docs/0/gold", tt.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)

		var body map[string]string
		decode(t, rec, &body)
		assert.Contains(t, body["error"], tt.want)
	}
}

func TestGoldsWithoutStorage(t *testing.T) {
	rec := do(t, newServer(t, nil, nil), http.MethodGet, "/api/docs/0/golds", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestReload(t *testing.T) {
	rec := do(t, newServer(t, nil, nil), http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	s := newServer(t, func(ctx context.Context) (sent.Library, error) {
		lib := library()
		lib = append(lib, sent.Document{Id: 1, Key: "text2"})
		return lib, nil
	}, nil)

	rec = do(t, s, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":2}`, rec.Body.String())
	assert.Len(t, s.Library(), 2)
}
