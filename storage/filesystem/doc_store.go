package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/goldtree/conllu"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
)

const (
	SingleKey   = "single"
	SingleLabel = "single document"
)

// Extensions are the file extensions read as CoNLL-U.
var Extensions = []string{".conll", ".conllu", ".txt"}

// DocStore serves the CoNLL-U files of a directory tree. Every directory
// holding CoNLL-U files is one document, each file one annotator.
type DocStore struct {
	root string

	// In-memory cache
	docs []sent.Document
}

var _ storage.DocReader = (*DocStore)(nil)
var _ storage.Preloader = (*DocStore)(nil)

// NewDocStore scans root for CoNLL-U files. The sentences are read by
// LoadAll.
func NewDocStore(root string) (*DocStore, error) {
	byKey := map[string]*sent.Document{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsConllu(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		key := filepath.ToSlash(filepath.Dir(rel))
		doc, ok := byKey[key]
		if !ok {
			doc = &sent.Document{Key: key, Label: key}
			byKey[key] = doc
		}

		doc.Annotators = append(doc.Annotators, sent.Annotator{Name: basename(rel), Source: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	docs := make([]sent.Document, 0, len(keys))
	for i, k := range keys {
		doc := byKey[k]
		doc.Id = i
		sort.Slice(doc.Annotators, func(a, b int) bool {
			return doc.Annotators[a].Source < doc.Annotators[b].Source
		})
		docs = append(docs, *doc)
	}

	return &DocStore{root: root, docs: docs}, nil
}

// LoadAll reads the sentences of every file concurrently. The callback is
// called once per file, never concurrently.
func (h *DocStore) LoadAll(ctx context.Context, cb func(total int, name string)) error {
	total := 0
	for _, d := range h.docs {
		total += len(d.Annotators)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for di := range h.docs {
		for ai := range h.docs[di].Annotators {
			a := &h.docs[di].Annotators[ai]
			g.Go(func() error {
				sentences, err := readFile(gctx, filepath.Join(h.root, filepath.FromSlash(a.Source)))
				if err != nil {
					return err
				}
				a.Sentences = sentences

				if cb != nil {
					mu.Lock()
					cb(total, a.Source)
					mu.Unlock()
				}
				return nil
			})
		}
	}

	return g.Wait()
}

func (h *DocStore) List(ctx context.Context) ([]sent.Document, error) {
	docs := make([]sent.Document, len(h.docs))
	for i, d := range h.docs {
		docs[i] = d
		docs[i].Annotators = make([]sent.Annotator, len(d.Annotators))
		for j, a := range d.Annotators {
			docs[i].Annotators[j] = sent.Annotator{Name: a.Name, Source: a.Source}
		}
	}
	return docs, nil
}

func (h *DocStore) Read(ctx context.Context, id int) (sent.Document, error) {
	if id < 0 || id >= len(h.docs) {
		return sent.Document{}, fmt.Errorf("doc id %d: %w", id, storage.ErrNotFound)
	}
	return h.docs[id], nil
}

// Library returns the loaded documents.
func (h *DocStore) Library() sent.Library {
	return sent.Library(h.docs)
}

// ReadFiles reads the given files as one document with an annotator per file.
// A file given twice is an error, the annotators would share their source.
func ReadFiles(ctx context.Context, paths ...string) (sent.Document, error) {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		if seen[clean] {
			return sent.Document{}, fmt.Errorf("file %s given more than once", p)
		}
		seen[clean] = true
	}

	doc := sent.Document{Key: SingleKey, Label: SingleLabel, Annotators: make([]sent.Annotator, len(paths))}

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			sentences, err := readFile(gctx, p)
			if err != nil {
				return err
			}
			doc.Annotators[i] = sent.Annotator{Name: basename(p), Source: p, Sentences: sentences}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sent.Document{}, err
	}

	return doc, nil
}

// IsConllu reports whether path has one of the Extensions.
func IsConllu(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func readFile(ctx context.Context, path string) ([]sent.Sentence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}
	defer f.Close()

	sentences, err := conllu.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return sentences, nil
}

// basename is the file name without directory and extension
func basename(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
