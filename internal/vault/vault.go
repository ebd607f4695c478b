// Package vault archives whole-chain snapshots in an embedded key-value
// store, keyed by the chain's ChainFingerprint, so a host can retrieve a
// historical chain state without rescanning the filesystem for .fish files.
// This is supplementary to the chain's own .fish persistence — the vault
// is a lookup index over snapshots, not the chain's source of truth.
package vault

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/fossillogic/jellyfish/internal/chain"
)

// Vault is an embedded archive of chain snapshots.
type Vault struct {
	db *badger.DB
}

// Open opens (creating if necessary) a vault rooted at dir.
func Open(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("vault: mkdir %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("vault: open %s: %w", dir, err)
	}
	return &Vault{db: db}, nil
}

// Close releases the vault's resources.
func (v *Vault) Close() error {
	return v.db.Close()
}

// Archive snapshots c under its current ChainFingerprint. Re-archiving an
// identical fingerprint is a cheap no-op overwrite.
func (v *Vault) Archive(c *chain.Chain) (string, error) {
	fp := c.ChainFingerprint()
	key := fp[:]

	data := c.Marshal()

	err := v.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return "", fmt.Errorf("vault: archive: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Fetch retrieves a previously archived chain by its hex-encoded
// fingerprint.
func (v *Vault) Fetch(fingerprintHex string) (*chain.Chain, error) {
	key, err := hex.DecodeString(fingerprintHex)
	if err != nil {
		return nil, fmt.Errorf("vault: bad fingerprint %q: %w", fingerprintHex, err)
	}

	var data []byte
	err = v.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("vault: fetch %s: %w", fingerprintHex, err)
	}

	return chain.Unmarshal(data)
}

// List returns the hex-encoded fingerprints of every archived chain.
func (v *Vault) List() ([]string, error) {
	var keys []string
	err := v.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, hex.EncodeToString(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}
