// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps one snapshot document per user in memory and fans out saved
// snapshots to subscribers, mimicking a remote store's push channel.
type Memory struct {
	mu      sync.RWMutex
	docs    map[ledger.UserID]ledger.Snapshot
	subs    map[ledger.UserID]map[int]func(ledger.Snapshot)
	nextSub int

	// deliverMu serializes subscriber notification so a subscriber never
	// observes an older document after a newer one.
	deliverMu sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[ledger.UserID]ledger.Snapshot),
		subs: make(map[ledger.UserID]map[int]func(ledger.Snapshot)),
	}
}

func (m *Memory) Load(_ context.Context, user ledger.UserID) (ledger.Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.docs[user]
	if !ok {
		return ledger.Snapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

func (m *Memory) Save(_ context.Context, user ledger.UserID, snap ledger.Snapshot) error {
	m.mu.Lock()
	m.docs[user] = snap.Clone()
	m.mu.Unlock()

	// Asynchronous fan-out: a subscriber may call back into the session
	// that triggered the save, so it must not run on the saver's
	// goroutine or under our lock.
	go m.deliver(user)
	return nil
}

// deliver pushes the newest stored document to the user's subscribers. It
// reads the document at delivery time (not save time) under deliverMu, so
// overlapping saves cannot push documents out of order.
func (m *Memory) deliver(user ledger.UserID) {
	m.deliverMu.Lock()
	defer m.deliverMu.Unlock()

	m.mu.RLock()
	doc, ok := m.docs[user]
	fns := make([]func(ledger.Snapshot), 0, len(m.subs[user]))
	for _, fn := range m.subs[user] {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	if !ok {
		return
	}
	for _, fn := range fns {
		fn(doc.Clone())
	}
}

// Subscribe registers fn for every snapshot saved for the user. The
// returned function cancels the subscription.
func (m *Memory) Subscribe(user ledger.UserID, fn func(ledger.Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[user] == nil {
		m.subs[user] = make(map[int]func(ledger.Snapshot))
	}
	id := m.nextSub
	m.nextSub++
	m.subs[user][id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[user], id)
	}
}
