package zombiezen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)
var _ storage.GoldWriter = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

func (h *DocStore) List(ctx context.Context) ([]sent.Document, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var docs []sent.Document
	err = sqlitex.Execute(conn, "SELECT id, key, label FROM docs ORDER BY key", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			docs = append(docs, sent.Document{
				Id:    stmt.ColumnInt(0),
				Key:   stmt.ColumnText(1),
				Label: stmt.ColumnText(2),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	for i := range docs {
		docs[i].Annotators, err = annotators(conn, docs[i].Id)
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func (h *DocStore) Read(ctx context.Context, id int) (sent.Document, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return sent.Document{}, err
	}
	defer h.pool.Put(conn)

	doc := sent.Document{Id: id}
	found := false

	err = sqlitex.Execute(conn, "SELECT key, label FROM docs WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			doc.Key = stmt.ColumnText(0)
			doc.Label = stmt.ColumnText(1)
			return nil
		},
	})
	if err != nil {
		return sent.Document{}, err
	}
	if !found {
		return sent.Document{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}

	doc.Annotators, err = annotators(conn, id)
	if err != nil {
		return sent.Document{}, err
	}

	err = sqlitex.Execute(conn, "SELECT annotator_pos, data FROM sentences WHERE doc_id = ? ORDER BY annotator_pos, idx", &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			pos := stmt.ColumnInt(0)
			if pos < 0 || pos >= len(doc.Annotators) {
				return fmt.Errorf("doc %d: sentence of unknown annotator %d", id, pos)
			}

			var s sent.Sentence
			if err := json.Unmarshal([]byte(stmt.ColumnText(1)), &s); err != nil {
				return fmt.Errorf("JSON decoding error: %w", err)
			}
			doc.Annotators[pos].Sentences = append(doc.Annotators[pos].Sentences, s)
			return nil
		},
	})
	if err != nil {
		return sent.Document{}, err
	}

	return doc, nil
}

// Write stores doc, replacing the annotators and sentences of a document
// with the same key. Gold records of the document are kept.
func (h *DocStore) Write(ctx context.Context, doc sent.Document) (id int, err error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	id = -1
	err = sqlitex.Execute(conn, "SELECT id FROM docs WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{doc.Key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, err
	}

	if id < 0 {
		err = sqlitex.Execute(conn, "INSERT INTO docs (key, label) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{doc.Key, doc.Label},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert doc: %w", err)
		}
		id = int(conn.LastInsertRowID())
	} else {
		err = sqlitex.Execute(conn, "UPDATE docs SET label = ? WHERE id = ?", &sqlitex.ExecOptions{
			Args: []any{doc.Label, id},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to update doc %q: %w", doc.Key, err)
		}

		for _, q := range []string{
			"DELETE FROM annotators WHERE doc_id = ?",
			"DELETE FROM sentences WHERE doc_id = ?",
		} {
			if err = sqlitex.Execute(conn, q, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
				return 0, fmt.Errorf("failed to replace doc %q: %w", doc.Key, err)
			}
		}
	}

	for pos, a := range doc.Annotators {
		err = sqlitex.Execute(conn, "INSERT INTO annotators (doc_id, pos, source, name) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{id, pos, a.Source, a.Name},
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert annotator: %w", err)
		}

		for idx, s := range a.Sentences {
			data, marshalErr := json.Marshal(s)
			if marshalErr != nil {
				return 0, marshalErr
			}

			err = sqlitex.Execute(conn, "INSERT INTO sentences (doc_id, annotator_pos, idx, data) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
				Args: []any{id, pos, idx, string(data)},
			})
			if err != nil {
				return 0, fmt.Errorf("failed to insert sentence: %w", err)
			}
		}
	}

	return id, nil
}

// Rename sets the display name of the annotator with the given source.
func (h *DocStore) Rename(ctx context.Context, docId int, source, name string) error {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	err = sqlitex.Execute(conn, "UPDATE annotators SET name = ? WHERE doc_id = ? AND source = ?", &sqlitex.ExecOptions{
		Args: []any{name, docId, source},
	})
	if err != nil {
		return err
	}

	if conn.Changes() == 0 {
		return fmt.Errorf("annotator %q of doc %d: %w", source, docId, storage.ErrNotFound)
	}

	return nil
}

func (h *DocStore) WriteGold(ctx context.Context, g storage.GoldRecord) (int64, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return 0, err
	}
	defer h.pool.Put(conn)

	if g.Created.IsZero() {
		g.Created = time.Now()
	}

	err = sqlitex.Execute(conn, "INSERT INTO golds (doc_id, a, b, options, text, created) VALUES (?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
		Args: []any{g.DocId, g.A, g.B, g.Options, g.Text, g.Created.Unix()},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert gold: %w", err)
	}

	return conn.LastInsertRowID(), nil
}

// Golds returns the gold exports of a document, newest first.
func (h *DocStore) Golds(ctx context.Context, docId int) ([]storage.GoldRecord, error) {
	conn, err := h.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	golds := []storage.GoldRecord{}
	err = sqlitex.Execute(conn, "SELECT id, a, b, options, text, created FROM golds WHERE doc_id = ? ORDER BY id DESC", &sqlitex.ExecOptions{
		Args: []any{docId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			golds = append(golds, storage.GoldRecord{
				Id:      stmt.ColumnInt64(0),
				DocId:   docId,
				A:       stmt.ColumnText(1),
				B:       stmt.ColumnText(2),
				Options: stmt.ColumnText(3),
				Text:    stmt.ColumnText(4),
				Created: time.Unix(stmt.ColumnInt64(5), 0),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return golds, nil
}

func annotators(conn *sqlite.Conn, docId int) ([]sent.Annotator, error) {
	var as []sent.Annotator
	err := sqlitex.Execute(conn, "SELECT source, name FROM annotators WHERE doc_id = ? ORDER BY pos", &sqlitex.ExecOptions{
		Args: []any{docId},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			as = append(as, sent.Annotator{Source: stmt.ColumnText(0), Name: stmt.ColumnText(1)})
			return nil
		},
	})
	return as, err
}
