package zombiezen

import (
	"context"
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

// NewPool opens the corpus database at dbPath, one connection per CPU. The
// file is created when missing and runs in WAL mode.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("open corpus db %s: %w", dbPath, err)
	}
	return pool, nil
}

// Open creates the pool for dbPath and makes sure the schema exists.
func Open(ctx context.Context, dbPath string) (*sqlitex.Pool, error) {
	pool, err := NewPool(dbPath)
	if err != nil {
		return nil, err
	}

	if err := CreateSchemas(ctx, pool, DocsSchema); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
