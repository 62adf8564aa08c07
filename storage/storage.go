package storage

import (
	"context"
	"errors"
	"time"

	sent "github.com/revelaction/goldtree/sentence"
)

var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("read-only storage")
)

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the documents with their annotator names and sources.
	// Sentences are not loaded.
	List(ctx context.Context) ([]sent.Document, error)

	// Read returns a document by ID, with its sentences
	Read(ctx context.Context, id int) (sent.Document, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document, replacing the one with the same Key. It
	// returns the document ID.
	Write(ctx context.Context, doc sent.Document) (int, error)

	// Rename changes the display name of the annotator identified by
	// source in document docId.
	Rename(ctx context.Context, docId int, source, name string) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}

// GoldRecord is a stored gold export.
type GoldRecord struct {
	Id      int64     `json:"id"`
	DocId   int       `json:"doc_id"`
	A       string    `json:"a"`
	B       string    `json:"b"`
	Options string    `json:"options"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// GoldWriter stores gold exports next to their documents.
type GoldWriter interface {
	WriteGold(ctx context.Context, g GoldRecord) (int64, error)
	Golds(ctx context.Context, docId int) ([]GoldRecord, error)
}

// Preloader defines an optional capability for repositories that require
// eager loading of data into memory.
type Preloader interface {
	LoadAll(ctx context.Context, cb func(total int, name string)) error
}

// Library reads every document of r with its sentences.
func Library(ctx context.Context, r DocReader) (sent.Library, error) {
	metas, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	lib := make(sent.Library, 0, len(metas))
	for _, m := range metas {
		doc, err := r.Read(ctx, m.Id)
		if err != nil {
			return nil, err
		}
		lib = append(lib, doc)
	}

	return lib, nil
}
