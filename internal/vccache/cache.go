// Package vccache persists VC outcomes keyed by a hash of the emitted
// SMT-LIB text, so re-running a verification pass after an unrelated change
// skips re-checking any VC whose text is byte-for-byte unchanged — spec.md
// §2's incidental-caching note. Grounded on mcgru-funxy's builtins_sql.go
// (database/sql over modernc.org/sqlite, the pure-Go driver, imported for
// its side effect of registering itself).
package vccache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lhaig/vcgen/internal/vcgen"
)

// Cache is a sqlite-backed store of (vc hash) -> (status, model, reason).
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS vc_outcomes (
	hash       TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	status     INTEGER NOT NULL,
	model      TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT ''
);
`

// Open opens (creating if necessary) a sqlite database at path and ensures
// its schema exists. Use ":memory:" for a process-local, unshared cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("vccache: opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("vccache: pinging %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("vccache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// hash derives the cache key from a VC's full fingerprint text (see
// vcgen.Fingerprint): the assertions and axioms submitted alongside the
// negated goal are part of its meaning, so the fingerprint already folds
// them in before this ever runs.
func hash(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached outcome for fingerprint, if any. Implements
// vcgen.OutcomeCache.
func (c *Cache) Lookup(fingerprint string) (*vcgen.Outcome, bool, error) {
	key := hash(fingerprint)
	row := c.db.QueryRow(`SELECT name, status, model, reason FROM vc_outcomes WHERE hash = ?`, key)

	var o vcgen.Outcome
	var status int
	if err := row.Scan(&o.Name, &status, &o.Model, &o.Reason); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("vccache: lookup %s: %w", key, err)
	}
	o.Status = vcgen.Status(status)
	return &o, true, nil
}

// Store records the outcome for fingerprint, overwriting any previous entry
// — a VC whose text changed hashes to a new key, so overwriting only ever
// happens when the same VC is checked again with the same text. Implements
// vcgen.OutcomeCache.
func (c *Cache) Store(fingerprint string, o *vcgen.Outcome) error {
	key := hash(fingerprint)
	_, err := c.db.Exec(
		`INSERT INTO vc_outcomes (hash, name, status, model, reason) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET name=excluded.name, status=excluded.status, model=excluded.model, reason=excluded.reason`,
		key, o.Name, int(o.Status), o.Model, o.Reason,
	)
	if err != nil {
		return fmt.Errorf("vccache: store %s: %w", key, err)
	}
	return nil
}
