package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/ledger/store"
)

// plainStore is a map-backed SnapshotStore without push notification, so
// session tests see no asynchronous Replace calls. failSave simulates a
// persistence outage.
type plainStore struct {
	mu       sync.Mutex
	docs     map[ledger.UserID]ledger.Snapshot
	failSave bool
}

func newPlainStore() *plainStore {
	return &plainStore{docs: make(map[ledger.UserID]ledger.Snapshot)}
}

func (p *plainStore) Load(_ context.Context, user ledger.UserID) (ledger.Snapshot, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.docs[user]
	if !ok {
		return ledger.Snapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

func (p *plainStore) Save(_ context.Context, user ledger.UserID, snap ledger.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSave {
		return errors.New("disk full")
	}
	p.docs[user] = snap.Clone()
	return nil
}

func TestOpenSession_FirstRunSeedsDefault(t *testing.T) {
	ctx := context.Background()
	ps := newPlainStore()

	s, err := ledger.OpenSession(ctx, ps, "user-1")
	require.NoError(t, err)
	defer s.Close()

	snap := s.State()
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, ledger.AccountID("acc1"), snap.Accounts[0].ID)
	assert.Len(t, snap.ExpenseCategories, 2)

	// The seeded default must have been persisted, not just held in memory.
	stored, ok, err := ps.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok, "default snapshot should be persisted on first run")
	assert.Len(t, stored.Accounts, 1)
}

func TestOpenSession_ExistingDataNotReseeded(t *testing.T) {
	ctx := context.Background()
	ps := newPlainStore()

	first, err := ledger.OpenSession(ctx, ps, "user-1")
	require.NoError(t, err)
	require.NoError(t, first.Submit(ctx, ledger.AddAccount{
		Account: ledger.Account{ID: "acc2", Name: "Savings"},
	}))
	first.Close()

	second, err := ledger.OpenSession(ctx, ps, "user-1")
	require.NoError(t, err)
	defer second.Close()

	assert.Len(t, second.State().Accounts, 2, "reopening must load persisted data")
}

func TestSubmit_ValidationRejectedWithoutStateChange(t *testing.T) {
	ctx := context.Background()
	s, err := ledger.OpenSession(ctx, newPlainStore(), "user-1")
	require.NoError(t, err)
	defer s.Close()

	before := s.State()

	err = s.Submit(ctx, ledger.AddAccountTransfer{Transfer: ledger.AccountTransfer{
		ID: "t1", FromAccountID: "acc1", ToAccountID: "acc1", Amount: dec(10),
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrSameTransferAccount)
	assert.True(t, ledger.IsClientError(err))

	err = s.Submit(ctx, ledger.AddCashFlow{CashFlow: ledger.CashFlow{
		ID: "cf1", Type: ledger.CashDeposit, AccountID: "acc1", Amount: dec(0),
	}})
	assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount)

	assert.Equal(t, before, s.State(), "rejected events must not change state")
}

func TestSubmit_PersistFailureSurfacedButNotRolledBack(t *testing.T) {
	ctx := context.Background()
	ps := newPlainStore()

	s, err := ledger.OpenSession(ctx, ps, "user-1")
	require.NoError(t, err)
	defer s.Close()

	ps.failSave = true
	err = s.Submit(ctx, ledger.AddAccount{Account: ledger.Account{ID: "acc2", Name: "Savings"}})

	var pe *ledger.PersistError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ledger.UserID("user-1"), pe.UserID)

	// The in-memory snapshot has already advanced; the caller decides
	// whether to retry the save.
	_, ok := s.State().AccountByID("acc2")
	assert.True(t, ok, "mutation applies locally even when the save fails")
}

func TestReplace_InstallsSnapshotWholesale(t *testing.T) {
	ctx := context.Background()
	s, err := ledger.OpenSession(ctx, newPlainStore(), "user-1")
	require.NoError(t, err)
	defer s.Close()

	pushed := ledger.Snapshot{
		Accounts: []ledger.Account{{ID: "remote", Name: "Pushed", Balance: dec(42)}},
	}
	s.Replace(pushed)

	snap := s.State()
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, ledger.AccountID("remote"), snap.Accounts[0].ID)
	assert.Empty(t, snap.ExpenseCategories, "replace does not merge with the previous state")
}

func TestSession_ReceivesPushFromOtherSession(t *testing.T) {
	// Two sessions on the same user's document: a save by one is pushed to
	// the other through the store's watch channel.
	ctx := context.Background()
	mem := store.NewMemory()

	writer, err := ledger.OpenSession(ctx, mem, "user-1")
	require.NoError(t, err)
	defer writer.Close()
	reader, err := ledger.OpenSession(ctx, mem, "user-1")
	require.NoError(t, err)
	defer reader.Close()

	require.NoError(t, writer.Submit(ctx, ledger.AddAccount{
		Account: ledger.Account{ID: "acc2", Name: "Savings"},
	}))

	assert.Eventually(t, func() bool {
		_, ok := reader.State().AccountByID("acc2")
		return ok
	}, time.Second, 10*time.Millisecond, "reader session should receive the pushed snapshot")
}

func TestClear_ResetsToDefaultAndPersists(t *testing.T) {
	ctx := context.Background()
	ps := newPlainStore()
	s, err := ledger.OpenSession(ctx, ps, "user-1")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Submit(ctx, ledger.AddAccount{Account: ledger.Account{ID: "acc2"}}))
	require.NoError(t, s.Clear(ctx))

	assert.Len(t, s.State().Accounts, 1)

	stored, ok, err := ps.Load(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Accounts, 1, "clear must persist the default snapshot")
}

func TestClose_RejectsFurtherMutations(t *testing.T) {
	ctx := context.Background()
	s, err := ledger.OpenSession(ctx, newPlainStore(), "user-1")
	require.NoError(t, err)

	s.Close()
	s.Close() // idempotent

	err = s.Submit(ctx, ledger.AddAccount{Account: ledger.Account{ID: "acc2"}})
	assert.ErrorIs(t, err, ledger.ErrSessionClosed)
	assert.ErrorIs(t, s.Clear(ctx), ledger.ErrSessionClosed)
}
