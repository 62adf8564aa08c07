package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gosuri/uiprogress"
	"github.com/urfave/cli/v2"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/goldtree/config"
	sent "github.com/revelaction/goldtree/sentence"
	"github.com/revelaction/goldtree/storage"
	"github.com/revelaction/goldtree/storage/filesystem"
	"github.com/revelaction/goldtree/storage/sqlite/zombiezen"
)

// sqliteExtensions select the sqlite repository for a corpus file
var sqliteExtensions = []string{".db", ".sqlite", ".sqlite3"}

// loadConfig reads the configuration file of --config (or only the
// environment) and applies the global flags over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Load()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// corpus is an opened document repository with its sentences in memory.
type corpus struct {
	lib sent.Library

	// repo and golds are nil when the corpus can not be written
	repo  storage.DocRepository
	golds storage.GoldWriter

	// load reads the library again from the same source
	load func(ctx context.Context) (sent.Library, error)

	pool *sqlitex.Pool
}

func (c *corpus) Close() error {
	if c.pool != nil {
		return c.pool.Close()
	}
	return nil
}

// openCorpus opens the corpus given as arguments, or the configured one. A
// directory is read from the filesystem, a .db/.sqlite file from sqlite and
// any other files as the annotators of one document.
func openCorpus(ctx context.Context, paths []string, cfg config.Config, ui UI, progress bool) (*corpus, error) {
	if len(paths) == 0 && cfg.Corpus != "" {
		paths = []string{cfg.Corpus}
	}
	if len(paths) == 0 && cfg.DB != "" {
		paths = []string{cfg.DB}
	}
	if len(paths) == 0 {
		return nil, errors.New("no corpus given: pass a directory, a database or CoNLL-U files")
	}

	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return nil, fmt.Errorf("repository not found: %s", paths[0])
		}

		if info.IsDir() {
			return openDir(ctx, paths[0], ui, progress)
		}

		if isSqlite(paths[0]) {
			return openSqlite(ctx, paths[0])
		}
	}

	load := func(ctx context.Context) (sent.Library, error) {
		doc, err := filesystem.ReadFiles(ctx, paths...)
		if err != nil {
			return nil, err
		}
		return sent.Library{doc}, nil
	}

	lib, err := load(ctx)
	if err != nil {
		return nil, err
	}

	return &corpus{lib: lib, load: load}, nil
}

func openDir(ctx context.Context, root string, ui UI, progress bool) (*corpus, error) {
	store, err := filesystem.NewDocStore(root)
	if err != nil {
		return nil, err
	}

	if err := loadWithProgress(ctx, store, ui, progress); err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (sent.Library, error) {
		s, err := filesystem.NewDocStore(root)
		if err != nil {
			return nil, err
		}
		if err := s.LoadAll(ctx, nil); err != nil {
			return nil, err
		}
		return s.Library(), nil
	}

	return &corpus{lib: store.Library(), load: load}, nil
}

func openSqlite(ctx context.Context, path string) (*corpus, error) {
	pool, err := zombiezen.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	store := zombiezen.NewDocStore(pool)
	load := func(ctx context.Context) (sent.Library, error) {
		return storage.Library(ctx, store)
	}

	lib, err := load(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &corpus{lib: lib, repo: store, golds: store, load: load, pool: pool}, nil
}

// loadWithProgress reads all files of a directory store, showing a progress
// bar on ui.Err.
func loadWithProgress(ctx context.Context, store *filesystem.DocStore, ui UI, progress bool) error {
	if !progress {
		return store.LoadAll(ctx, nil)
	}

	p := uiprogress.New()
	p.SetOut(ui.Err)
	p.Start()
	defer p.Stop()

	var bar *uiprogress.Bar
	var last atomic.Value
	last.Store("")

	return store.LoadAll(ctx, func(total int, name string) {
		if bar == nil {
			bar = p.AddBar(total)
			bar.AppendCompleted()
			bar.PrependElapsed()
			// Append file name to the progress bar
			bar.AppendFunc(func(b *uiprogress.Bar) string {
				return last.Load().(string)
			})
		}
		last.Store(name)
		bar.Incr()
	})
}

func isSqlite(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sqliteExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// selectDoc returns the document of --doc, or the first one of the library.
func selectDoc(c *cli.Context, lib sent.Library) (sent.Document, error) {
	if len(lib) == 0 {
		return sent.Document{}, errors.New("the corpus has no documents")
	}

	if !c.IsSet("doc") {
		return lib[0], nil
	}

	id := c.Int("doc")
	doc, ok := lib.Doc(id)
	if !ok {
		return sent.Document{}, fmt.Errorf("doc %d: %w", id, storage.ErrNotFound)
	}
	return doc, nil
}

func docFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "doc",
		Aliases: []string{"d"},
		Usage:   "document id (default: the first document)",
	}
}
