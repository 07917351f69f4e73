package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/ledger-engine/ledger"
	"github.com/warp/ledger-engine/ledger/store"
)

func TestMemory_LoadAbsent(t *testing.T) {
	_, ok, err := store.NewMemory().Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for an unknown user")
	}
}

func TestMemory_SaveLoadIsolation(t *testing.T) {
	// GIVEN: A saved snapshot
	// WHEN: Mutating the caller's copy afterwards
	// THEN: The stored document is unaffected
	ctx := context.Background()
	mem := store.NewMemory()

	snap := ledger.Snapshot{
		Accounts: []ledger.Account{{ID: "a1", Name: "Main", Balance: decimal.NewFromInt(10)}},
	}
	if err := mem.Save(ctx, "u1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap.Accounts[0].Name = "Mutated"

	loaded, ok, err := mem.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if loaded.Accounts[0].Name != "Main" {
		t.Errorf("stored document shares memory with the caller: %q", loaded.Accounts[0].Name)
	}

	loaded.Accounts[0].Name = "Mutated Again"
	reloaded, _, _ := mem.Load(ctx, "u1")
	if reloaded.Accounts[0].Name != "Main" {
		t.Errorf("loaded document shares memory with the store: %q", reloaded.Accounts[0].Name)
	}
}

func TestMemory_SubscribeFanOut(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	got := make(chan ledger.Snapshot, 1)
	cancel := mem.Subscribe("u1", func(s ledger.Snapshot) { got <- s })

	snap := ledger.Snapshot{Accounts: []ledger.Account{{ID: "a1"}}}
	if err := mem.Save(ctx, "u1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case pushed := <-got:
		if len(pushed.Accounts) != 1 || pushed.Accounts[0].ID != "a1" {
			t.Errorf("unexpected pushed snapshot: %+v", pushed)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}

	// After cancel, saves no longer notify.
	cancel()
	if err := mem.Save(ctx, "u1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	select {
	case <-got:
		t.Error("cancelled subscriber still notified")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemory_SubscribeOtherUserNotNotified(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	got := make(chan ledger.Snapshot, 1)
	defer mem.Subscribe("u1", func(s ledger.Snapshot) { got <- s })()

	if err := mem.Save(ctx, "u2", ledger.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	select {
	case <-got:
		t.Error("subscriber notified for another user's save")
	case <-time.After(50 * time.Millisecond):
	}
}
