package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/store/sqlite"
)

// newTestStore opens a store on a throwaway database file. A file (not
// ":memory:") because database/sql pools connections and each new in-memory
// connection would see a fresh database.
func newTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_FirstRunAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	snap := ledger.DefaultSnapshot()
	snap.Accounts = append(snap.Accounts, ledger.Account{
		ID: "acc2", Name: "Savings", Balance: decimal.RequireFromString("123.45"),
	})
	snap.Sales = []ledger.Sale{{
		ID:         "s1",
		CustomerID: "c1",
		Date:       ledger.NewDate(2026, time.March, 10),
		Items:      []ledger.TransactionItem{{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(50)}},
		Payments:   []ledger.Payment{{AccountID: "acc1", Amount: decimal.NewFromInt(100)}},
	}}

	require.NoError(t, store.Save(ctx, "u1", snap))

	loaded, ok, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, loaded.Accounts, 2)
	assert.True(t, loaded.Accounts[1].Balance.Equal(decimal.RequireFromString("123.45")))
	require.Len(t, loaded.Sales, 1)
	assert.Equal(t, "s1", loaded.Sales[0].ID)
	assert.Equal(t, "2026-03-10", loaded.Sales[0].Date.String())
	require.Len(t, loaded.Sales[0].Items, 1)
	assert.EqualValues(t, 2, loaded.Sales[0].Items[0].Quantity)
}

func TestStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first := ledger.DefaultSnapshot()
	require.NoError(t, store.Save(ctx, "u1", first))

	second := first.Clone()
	second.Accounts[0].Name = "Renamed"
	require.NoError(t, store.Save(ctx, "u1", second))

	loaded, ok, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Renamed", loaded.Accounts[0].Name)
}

func TestStore_OldDocumentKeepsDefaultsForMissingCollections(t *testing.T) {
	// GIVEN: A document written by an older version, holding only accounts
	// WHEN: Loading it
	// THEN: Missing collections keep their first-run defaults
	ctx := context.Background()
	store, path := newTestStore(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, doc, updated_at) VALUES (?, ?, ?)`,
		"legacy", `{"accounts":[{"id":"a9","name":"Legacy","balance":"25"}]}`, "2024-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	loaded, ok, err := store.Load(ctx, "legacy")
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, loaded.Accounts, 1)
	assert.Equal(t, ledger.AccountID("a9"), loaded.Accounts[0].ID)
	assert.True(t, loaded.Accounts[0].Balance.Equal(decimal.NewFromInt(25)))
	assert.Len(t, loaded.ExpenseCategories, 2, "missing collections fall back to defaults")
	assert.Empty(t, loaded.Sales)
}

func TestStore_UsersIsolated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	a := ledger.DefaultSnapshot()
	a.Accounts[0].Name = "A's Account"
	b := ledger.DefaultSnapshot()
	b.Accounts[0].Name = "B's Account"

	require.NoError(t, store.Save(ctx, "alice", a))
	require.NoError(t, store.Save(ctx, "bob", b))

	loadedA, _, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	loadedB, _, err := store.Load(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, "A's Account", loadedA.Accounts[0].Name)
	assert.Equal(t, "B's Account", loadedB.Accounts[0].Name)
}
