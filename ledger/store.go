/*
store.go - Persistence interface for snapshots

PURPOSE:
  Defines the boundary between the engine and whatever stores the books.
  A SnapshotStore keeps one document per user holding the eleven
  collections; the engine never talks to storage directly, only the
  session does.

DOCUMENT MODEL:
  Whole-snapshot reads and writes. There is no per-record persistence and
  no merge: a save replaces the user's document, a pushed update replaces
  the working snapshot. Last-write-wins across concurrent sessions is a
  known, documented gap.

IMPLEMENTATIONS:
  - ledger/store/memory.go: in-memory, with subscriber fan-out (tests/dev)
  - store/sqlite/sqlite.go: production SQLite, one JSON document per user
*/
package ledger

import "context"

// UserID identifies whose books a snapshot belongs to. How identity is
// established (auth) is outside this module.
type UserID string

// SnapshotStore persists one snapshot document per user.
type SnapshotStore interface {
	// Load returns the user's snapshot. ok is false when no document
	// exists yet (first run).
	Load(ctx context.Context, user UserID) (snap Snapshot, ok bool, err error)

	// Save replaces the user's document with the given snapshot.
	Save(ctx context.Context, user UserID, snap Snapshot) error
}

// SnapshotWatcher is an optional store capability: push notification of
// externally-updated snapshots. Subscribers receive the full replacement
// document, not a diff.
type SnapshotWatcher interface {
	// Subscribe registers fn to be called with each snapshot saved for
	// the user. The returned function cancels the subscription.
	// Notifications may be delivered asynchronously.
	Subscribe(user UserID, fn func(Snapshot)) (cancel func())
}
