/*
session.go - Single-flight mutation session

PURPOSE:
  A Session owns one user's working snapshot behind a mutex and serializes
  every mutation: validate, apply through the engine, persist, then return.
  Submission order is the serialization order; there is no optimistic
  concurrency and no cross-session merge.

ORDERING:
  Submit holds the lock across apply-and-persist, so a second caller
  blocks until the first save has been acknowledged. Ordering is a
  property of the session, not of callers happening to be single-threaded.

FAILURE MODEL:
  A persist failure is surfaced as a PersistError, but the in-memory
  snapshot is NOT rolled back: the mutation already happened locally and
  the caller decides whether to retry the save. No automatic retry.

EXTERNAL UPDATES:
  If the store supports push notification, the session subscribes and
  installs each pushed snapshot wholesale via Replace. A push that races a
  local mutation is last-write-wins and can drop the local change; known
  consistency gap.
*/
package ledger

import (
	"context"
	"sync"
)

// Session is the mutation and read handle for one user's books.
type Session struct {
	store SnapshotStore
	user  UserID

	mu     sync.Mutex
	snap   Snapshot
	closed bool
	cancel func()
}

// OpenSession loads the user's snapshot, seeding and persisting the default
// snapshot on first run. If the store supports push notification the
// session subscribes to wholesale replacements.
func OpenSession(ctx context.Context, store SnapshotStore, user UserID) (*Session, error) {
	snap, ok, err := store.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		snap = DefaultSnapshot()
		if err := store.Save(ctx, user, snap); err != nil {
			return nil, &PersistError{UserID: user, Err: err}
		}
	}

	s := &Session{store: store, user: user, snap: snap}
	if w, okWatch := store.(SnapshotWatcher); okWatch {
		s.cancel = w.Subscribe(user, s.Replace)
	}
	return s, nil
}

// State returns a deep copy of the working snapshot.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Submit validates the event, applies it, and persists the new snapshot.
// It returns once the save is acknowledged; concurrent callers execute in
// submission order.
func (s *Session) Submit(ctx context.Context, e Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.snap = Apply(s.snap, e)
	if err := s.store.Save(ctx, s.user, s.snap); err != nil {
		return &PersistError{UserID: s.user, Err: err}
	}
	return nil
}

// Replace installs an externally-pushed snapshot wholesale. No merge: a
// pending local mutation that has not been persisted yet is lost.
func (s *Session) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.snap = snap.Clone()
}

// Clear resets the user's books to the default snapshot and persists it.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.snap = DefaultSnapshot()
	if err := s.store.Save(ctx, s.user, s.snap); err != nil {
		return &PersistError{UserID: s.user, Err: err}
	}
	return nil
}

// Close cancels the push subscription. Subsequent mutations fail with
// ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}
