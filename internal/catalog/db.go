// Package catalog indexes managed .fish files in SQLite. The catalog is
// metadata only — path, device id, block count, trust score, decay
// bookkeeping — never the chain's source of truth. A chain's state lives in
// its in-memory array and the .fish file it was loaded from or saved to.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the catalog's SQLite database.
type DB struct {
	*sql.DB
	Path string
}

// DefaultDBPath returns the default catalog path: ~/.jellyfish/catalog.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".jellyfish", "catalog.db"), nil
}

// Open opens (or creates) the SQLite database at path, configures pragmas,
// and runs migrations.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db := &DB{DB: sqlDB, Path: path}
	if err := db.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// OpenMemory opens an in-memory SQLite database, for tests.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}

	db := &DB{DB: sqlDB, Path: ":memory:"}
	if err := db.configurePragmas(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// configurePragmas tunes SQLite for the catalog's actual workload: a
// handful of small rows (one per managed .fish file or mindset model)
// touched in short bursts by CLI invocations, not a continuously
// growing log of large records. There are no foreign keys between
// chains and mindset_models, so that pragma is skipped; the WAL is
// checkpointed aggressively since writes are infrequent and a stale
// multi-megabyte -wal file sitting next to a catalog this small is
// pure waste.
func (db *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA wal_autocheckpoint=64",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

// Close checkpoints the WAL back into the main database file before
// closing the connection, so a catalog that only ever sees small,
// bursty writes doesn't leave state stranded in a -wal file between
// CLI invocations.
func (db *DB) Close() error {
	if db.Path != ":memory:" {
		db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return db.DB.Close()
}
