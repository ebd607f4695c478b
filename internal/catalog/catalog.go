package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fossillogic/jellyfish/internal/chain"
)

// Entry is a catalog row describing one managed .fish file.
type Entry struct {
	ID          int64
	Path        string
	DeviceID    string
	BlockCount  int
	TrustScore  float64
	Fingerprint string
	LastDecayAt *int64
	CreatedAt   int64
	UpdatedAt   int64
}

// Upsert records or refreshes a chain's catalog entry from its current
// in-memory state. Call this after Save so the catalog never disagrees
// with what's on disk for long.
func (db *DB) Upsert(path string, c *chain.Chain) (*Entry, error) {
	now := time.Now().UnixMilli()
	deviceID := fmt.Sprintf("%x", c.DeviceID)
	fp := c.ChainFingerprint()
	fingerprint := fmt.Sprintf("%x", fp)
	trust := c.TrustScore()

	_, err := db.Exec(`
		INSERT INTO chains (path, device_id, block_count, trust_score, fingerprint, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			device_id = excluded.device_id,
			block_count = excluded.block_count,
			trust_score = excluded.trust_score,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at
	`, path, deviceID, c.Count, trust, fingerprint, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert chain %s: %w", path, err)
	}

	return db.Get(path)
}

// Get returns the catalog entry for path, or nil if it isn't indexed.
func (db *DB) Get(path string) (*Entry, error) {
	var e Entry
	err := db.QueryRow(`
		SELECT id, path, device_id, block_count, trust_score, fingerprint, last_decay_at, created_at, updated_at
		FROM chains WHERE path = ?
	`, path).Scan(&e.ID, &e.Path, &e.DeviceID, &e.BlockCount, &e.TrustScore, &e.Fingerprint, &e.LastDecayAt, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chain %s: %w", path, err)
	}
	return &e, nil
}

// List returns every catalog entry, ordered by trust score descending.
func (db *DB) List() ([]Entry, error) {
	rows, err := db.Query(`
		SELECT id, path, device_id, block_count, trust_score, fingerprint, last_decay_at, created_at, updated_at
		FROM chains ORDER BY trust_score DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.DeviceID, &e.BlockCount, &e.TrustScore, &e.Fingerprint, &e.LastDecayAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkDecayed records that a decay pass ran against path just now.
func (db *DB) MarkDecayed(path string, c *chain.Chain) error {
	now := time.Now().UnixMilli()
	trust := c.TrustScore()
	_, err := db.Exec(`
		UPDATE chains SET last_decay_at = ?, trust_score = ?, updated_at = ?
		WHERE path = ?
	`, now, trust, now, path)
	if err != nil {
		return fmt.Errorf("mark decayed %s: %w", path, err)
	}
	return nil
}

// Remove drops path from the catalog. It does not touch the .fish file.
func (db *DB) Remove(path string) error {
	_, err := db.Exec(`DELETE FROM chains WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("remove chain %s: %w", path, err)
	}
	return nil
}

// UpsertModel records a mindset model's registry entry.
func (db *DB) UpsertModel(name, sourcePath, tags string, priority int) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO mindset_models (name, source_path, tags, priority, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source_path = excluded.source_path,
			tags = excluded.tags,
			priority = excluded.priority,
			updated_at = excluded.updated_at
	`, name, sourcePath, tags, priority, now)
	if err != nil {
		return fmt.Errorf("upsert model %s: %w", name, err)
	}
	return nil
}
