// Package store implements the optional persisted ground-instance cache of
// §B.4: a single sqlite table keyed by (kind, structural_hash) storing
// serialized ground actions/axioms, sitting in front of (never instead of)
// the in-memory Repository. Grounded on codenerd's internal/store.LocalStore
// sqlite-setup shape (sql.Open, initialize() issuing CREATE TABLE IF NOT
// EXISTS, a directory-create-then-open constructor), scaled down to one
// table and driven by modernc.org/sqlite's pure-Go driver instead of
// mattn/go-sqlite3.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind distinguishes the two record shapes the grounder caches.
type Kind string

const (
	KindGroundAction Kind = "action"
	KindGroundAxiom  Kind = "axiom"
)

// Store is a sqlite-backed content-addressed cache of serialized ground
// instances. Never consulted during grounding itself (the in-memory
// Repository and ground.Store remain authoritative within a process).
// `cmd/mimir` opens and closes a Store under --store but calls neither Put
// nor Get, so no invocation reuses another's ground instances.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates (if needed) the parent directory and the backing sqlite file
// at path, and ensures the cache table exists.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS ground_instances (
		kind TEXT NOT NULL,
		structural_hash TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (kind, structural_hash)
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("initialize store schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put stores record under (kind, hash), replacing any existing entry with
// the same key.
func (s *Store) Put(kind Kind, hash string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", kind, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO ground_instances (kind, structural_hash, payload) VALUES (?, ?, ?)
		 ON CONFLICT(kind, structural_hash) DO UPDATE SET payload = excluded.payload`,
		string(kind), hash, payload,
	)
	if err != nil {
		return fmt.Errorf("store %s %s: %w", kind, hash, err)
	}
	return nil
}

// Get looks up a previously stored record, unmarshaling it into out.
// Returns ok=false (no error) on a cache miss.
func (s *Store) Get(kind Kind, hash string, out any) (ok bool, err error) {
	var payload []byte
	row := s.db.QueryRow(`SELECT payload FROM ground_instances WHERE kind = ? AND structural_hash = ?`, string(kind), hash)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("load %s %s: %w", kind, hash, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("unmarshal %s %s: %w", kind, hash, err)
	}
	return true, nil
}

// Session identifies one loaded domain+problem pair, used to namespace a
// B.4 cache shared across multiple problems in the same store file (§B.5).
type Session struct {
	ID      uuid.UUID
	Domain  string
	Problem string
}

// NewSession stamps a fresh session identifier for a domain+problem pair.
func NewSession(domainName, problemName string) Session {
	return Session{ID: uuid.New(), Domain: domainName, Problem: problemName}
}

// Namespace returns the session-scoped structural-hash prefix used as the
// cache key's discriminator, so two problems sharing a store file never
// collide even if a schema+binding pair happens to hash identically.
func (s Session) Namespace(hash string) string {
	return s.ID.String() + ":" + hash
}
