package api

import (
	"context"
	"sync"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// SESSION MANAGER - One mutation session per user, created on first touch
// =============================================================================

type SessionManager struct {
	store ledger.SnapshotStore

	mu       sync.Mutex
	sessions map[ledger.UserID]*ledger.Session
}

func NewSessionManager(store ledger.SnapshotStore) *SessionManager {
	return &SessionManager{
		store:    store,
		sessions: make(map[ledger.UserID]*ledger.Session),
	}
}

// Get returns the user's session, opening one (and seeding the default
// snapshot on first run) if none exists yet.
func (m *SessionManager) Get(ctx context.Context, user ledger.UserID) (*ledger.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[user]; ok {
		return s, nil
	}
	s, err := ledger.OpenSession(ctx, m.store, user)
	if err != nil {
		return nil, err
	}
	m.sessions[user] = s
	return s, nil
}

// CloseAll closes every open session. Used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for user, s := range m.sessions {
		s.Close()
		delete(m.sessions, user)
	}
}
