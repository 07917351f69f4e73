/*
Package sqlite provides a SQLite-backed SnapshotStore.

PURPOSE:
  Persists one snapshot document per user, matching the remote
  document-store model: the whole business state is serialized as a single
  JSON document keyed by user ID, and every save replaces it.

DOCUMENT LAYOUT:
  snapshots(user_id TEXT PRIMARY KEY, doc TEXT, updated_at TEXT)
  The doc column holds the eleven collections under their canonical JSON
  names. Collections missing from an older document keep their first-run
  defaults on load, so documents written by earlier versions still work.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer, and crash recovery is better.

CONCURRENCY:
  A sync.RWMutex serializes access. Within one process the session layer
  already serializes mutations per user; the mutex covers multi-session
  use of one store.

USAGE:
  store, err := sqlite.New("./data/books.db")
  if err != nil { log.Fatal(err) }
  defer store.Close()
  session, err := ledger.OpenSession(ctx, store, "user-1")

SEE ALSO:
  - ledger/store.go: interface definition
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/ledger-engine/ledger"
)

// Store implements ledger.SnapshotStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at the given path and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- One snapshot document per user, replaced wholesale on save
	CREATE TABLE IF NOT EXISTS snapshots (
		user_id    TEXT PRIMARY KEY,
		doc        TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the user's snapshot, or ok=false on first run.
func (s *Store) Load(ctx context.Context, user ledger.UserID) (ledger.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM snapshots WHERE user_id = ?`, string(user),
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Snapshot{}, false, nil
	}
	if err != nil {
		return ledger.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	snap := ledger.DefaultSnapshot()
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return ledger.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Save replaces the user's document.
func (s *Store) Save(ctx context.Context, user ledger.UserID, snap ledger.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		string(user), string(doc), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
