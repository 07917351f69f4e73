package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func march(day int) ledger.Date { return ledger.NewDate(2026, time.March, day) }

// baseSnapshot is two accounts, one product, a customer, a supplier, a
// partner, and an expense category.
func baseSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Accounts: []ledger.Account{
			{ID: "acc1", Name: "Main", Balance: dec(1000)},
			{ID: "acc2", Name: "Savings", Balance: dec(500)},
		},
		Products: []ledger.Product{
			{ID: "p1", Name: "Widget", Price: dec(50), Cost: dec(20), Stock: 10},
		},
		Contacts: []ledger.Contact{
			{ID: "c1", Name: "Alice", Type: ledger.ContactCustomer},
			{ID: "c2", Name: "Bob Supplies", Type: ledger.ContactSupplier},
		},
		Partners: []ledger.Partner{
			{ID: "pt1", Name: "Priya"},
		},
		ExpenseCategories: []ledger.ExpenseCategory{
			{ID: "ec1", Name: "Office Supplies"},
		},
	}
}

func accountBalance(t *testing.T, s ledger.Snapshot, id ledger.AccountID) decimal.Decimal {
	t.Helper()
	a, ok := s.AccountByID(id)
	if !ok {
		t.Fatalf("account %s not found", id)
	}
	return a.Balance
}

func productStock(t *testing.T, s ledger.Snapshot, id ledger.ProductID) int64 {
	t.Helper()
	p, ok := s.ProductByID(id)
	if !ok {
		t.Fatalf("product %s not found", id)
	}
	return p.Stock
}

func wantBalance(t *testing.T, s ledger.Snapshot, id ledger.AccountID, want decimal.Decimal) {
	t.Helper()
	got := accountBalance(t, s, id)
	if !got.Equal(want) {
		t.Errorf("account %s balance = %v, want %v", id, got, want)
	}
}

func testSale() ledger.Sale {
	return ledger.Sale{
		ID:         "sale-1",
		CustomerID: "c1",
		Date:       march(10),
		Items:      []ledger.TransactionItem{{ProductID: "p1", Quantity: 2, Price: dec(50)}},
		Payments:   []ledger.Payment{{AccountID: "acc1", Amount: dec(100)}},
	}
}

// =============================================================================
// SALES
// =============================================================================

func TestAddSale_AdjustsStockAndBalance(t *testing.T) {
	// GIVEN: 10 units in stock, acc1 at 1000
	// WHEN: Selling 2 units with a 100 payment into acc1
	// THEN: Stock drops to 8, acc1 rises to 1100
	s := ledger.Apply(baseSnapshot(), ledger.AddSale{Sale: testSale()})

	if got := productStock(t, s, "p1"); got != 8 {
		t.Errorf("stock = %d, want 8", got)
	}
	wantBalance(t, s, "acc1", dec(1100))
	if len(s.Sales) != 1 {
		t.Fatalf("expected 1 sale recorded, got %d", len(s.Sales))
	}
}

func TestDeleteSale_RestoresStockAndBalance(t *testing.T) {
	sale := testSale()
	s := ledger.Apply(baseSnapshot(), ledger.AddSale{Sale: sale})
	s = ledger.Apply(s, ledger.DeleteSale{Sale: sale})

	if got := productStock(t, s, "p1"); got != 10 {
		t.Errorf("stock = %d, want 10 after delete", got)
	}
	wantBalance(t, s, "acc1", dec(1000))
	if len(s.Sales) != 0 {
		t.Errorf("expected sale removed, got %d sales", len(s.Sales))
	}
}

func TestUpdateSale_MovesPaymentAcrossAccounts(t *testing.T) {
	// GIVEN: A sale paid into acc1
	// WHEN: Updating it to be paid into acc2
	// THEN: acc1 is restored and acc2 is credited
	old := testSale()
	s := ledger.Apply(baseSnapshot(), ledger.AddSale{Sale: old})

	updated := old
	updated.Payments = []ledger.Payment{{AccountID: "acc2", Amount: dec(100)}}
	s = ledger.Apply(s, ledger.UpdateSale{Old: old, New: updated})

	wantBalance(t, s, "acc1", dec(1000))
	wantBalance(t, s, "acc2", dec(600))
	if got := productStock(t, s, "p1"); got != 8 {
		t.Errorf("stock = %d, want 8 (same quantity before and after)", got)
	}
}

func TestAddSale_MissingReferences_SkipsLines(t *testing.T) {
	// GIVEN: A sale naming an unknown product and one unknown account
	// WHEN: Applying it
	// THEN: The known payment still lands, the unknown lines are skipped,
	//       and the sale is recorded
	sale := ledger.Sale{
		ID:         "sale-ghost",
		CustomerID: "c1",
		Date:       march(12),
		Items:      []ledger.TransactionItem{{ProductID: "ghost", Quantity: 5, Price: dec(10)}},
		Payments: []ledger.Payment{
			{AccountID: "nope", Amount: dec(40)},
			{AccountID: "acc1", Amount: dec(10)},
		},
	}
	s := ledger.Apply(baseSnapshot(), ledger.AddSale{Sale: sale})

	wantBalance(t, s, "acc1", dec(1010))
	wantBalance(t, s, "acc2", dec(500))
	if got := productStock(t, s, "p1"); got != 10 {
		t.Errorf("stock = %d, want 10 (unrelated product untouched)", got)
	}
	if len(s.Sales) != 1 {
		t.Errorf("sale with dangling refs should still be recorded")
	}
}

// =============================================================================
// PURCHASES
// =============================================================================

func TestAddPurchase_MirrorsSale(t *testing.T) {
	purchase := ledger.Purchase{
		ID:         "pur-1",
		SupplierID: "c2",
		Date:       march(5),
		Items:      []ledger.TransactionItem{{ProductID: "p1", Quantity: 5, Price: dec(20)}},
		Payments:   []ledger.Payment{{AccountID: "acc1", Amount: dec(100)}},
	}
	s := ledger.Apply(baseSnapshot(), ledger.AddPurchase{Purchase: purchase})

	if got := productStock(t, s, "p1"); got != 15 {
		t.Errorf("stock = %d, want 15", got)
	}
	wantBalance(t, s, "acc1", dec(900))

	s = ledger.Apply(s, ledger.DeletePurchase{Purchase: purchase})
	if got := productStock(t, s, "p1"); got != 10 {
		t.Errorf("stock = %d, want 10 after delete", got)
	}
	wantBalance(t, s, "acc1", dec(1000))
}

// =============================================================================
// EXPENSES AND INVESTMENTS
// =============================================================================

func TestExpense_DebitsAndDeleteRestores(t *testing.T) {
	expense := ledger.Expense{ID: "e1", CategoryID: "ec1", Item: "Paper", Amount: dec(30), Date: march(3), AccountID: "acc1"}

	s := ledger.Apply(baseSnapshot(), ledger.AddExpense{Expense: expense})
	wantBalance(t, s, "acc1", dec(970))

	s = ledger.Apply(s, ledger.DeleteExpense{Expense: expense})
	wantBalance(t, s, "acc1", dec(1000))
}

func TestInvestment_CreditsAccount(t *testing.T) {
	inv := ledger.Investment{ID: "i1", PartnerID: "pt1", AccountID: "acc2", Amount: dec(250), Date: march(1)}
	s := ledger.Apply(baseSnapshot(), ledger.AddInvestment{Investment: inv})

	wantBalance(t, s, "acc2", dec(750))
	if len(s.Investments) != 1 {
		t.Errorf("expected investment recorded")
	}
}

// =============================================================================
// TRANSFERS
// =============================================================================

func TestTransfer_MovesBetweenAccounts(t *testing.T) {
	transfer := ledger.AccountTransfer{ID: "t1", FromAccountID: "acc1", ToAccountID: "acc2", Amount: dec(200), Date: march(7)}
	s := ledger.Apply(baseSnapshot(), ledger.AddAccountTransfer{Transfer: transfer})

	wantBalance(t, s, "acc1", dec(800))
	wantBalance(t, s, "acc2", dec(700))

	s = ledger.Apply(s, ledger.DeleteAccountTransfer{Transfer: transfer})
	wantBalance(t, s, "acc1", dec(1000))
	wantBalance(t, s, "acc2", dec(500))
}

func TestTransfer_MissingEndpoint_WholeEventNoOp(t *testing.T) {
	// GIVEN: A transfer whose destination does not exist
	// WHEN: Applying it
	// THEN: Nothing changes - no half-applied debit, no record
	transfer := ledger.AccountTransfer{ID: "t2", FromAccountID: "acc1", ToAccountID: "ghost", Amount: dec(200), Date: march(7)}
	before := baseSnapshot()
	s := ledger.Apply(before, ledger.AddAccountTransfer{Transfer: transfer})

	wantBalance(t, s, "acc1", dec(1000))
	if len(s.AccountTransfers) != 0 {
		t.Errorf("unresolvable transfer must not be recorded")
	}
}

// =============================================================================
// CASH FLOWS
// =============================================================================

func TestCashFlow_DepositAndWithdrawal(t *testing.T) {
	deposit := ledger.CashFlow{ID: "cf1", Type: ledger.CashDeposit, AccountID: "acc1", Amount: dec(75), Date: march(2)}
	withdrawal := ledger.CashFlow{ID: "cf2", Type: ledger.CashWithdrawal, AccountID: "acc1", Amount: dec(25), Date: march(4)}

	s := ledger.Apply(baseSnapshot(), ledger.AddCashFlow{CashFlow: deposit})
	wantBalance(t, s, "acc1", dec(1075))

	s = ledger.Apply(s, ledger.AddCashFlow{CashFlow: withdrawal})
	wantBalance(t, s, "acc1", dec(1050))

	s = ledger.Apply(s, ledger.DeleteCashFlow{CashFlow: deposit})
	wantBalance(t, s, "acc1", dec(975))
}

// =============================================================================
// ENTITY UPDATES - Derived fields are engine-owned
// =============================================================================

func TestUpdateAccount_PreservesDerivedBalance(t *testing.T) {
	s := ledger.Apply(baseSnapshot(), ledger.UpdateAccount{
		Account: ledger.Account{ID: "acc1", Name: "Renamed", Balance: dec(999999)},
	})

	a, _ := s.AccountByID("acc1")
	if a.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", a.Name)
	}
	if !a.Balance.Equal(dec(1000)) {
		t.Errorf("balance = %v, want 1000 (caller cannot set it)", a.Balance)
	}
}

func TestUpdateProduct_PreservesDerivedStock(t *testing.T) {
	s := ledger.Apply(baseSnapshot(), ledger.UpdateProduct{
		Product: ledger.Product{ID: "p1", Name: "Widget v2", Price: dec(60), Cost: dec(25), Stock: 777},
	})

	p, _ := s.ProductByID("p1")
	if p.Name != "Widget v2" || !p.Price.Equal(dec(60)) {
		t.Errorf("editable fields not applied: %+v", p)
	}
	if p.Stock != 10 {
		t.Errorf("stock = %d, want 10 (caller cannot set it)", p.Stock)
	}
}

// =============================================================================
// PURITY
// =============================================================================

func TestApply_DoesNotMutateInput(t *testing.T) {
	before := baseSnapshot()
	_ = ledger.Apply(before, ledger.AddSale{Sale: testSale()})

	wantBalance(t, before, "acc1", dec(1000))
	if got := productStock(t, before, "p1"); got != 10 {
		t.Errorf("input snapshot stock mutated: %d", got)
	}
	if len(before.Sales) != 0 {
		t.Errorf("input snapshot gained a sale")
	}
}

func TestApply_UnknownDeleteLeavesCollectionsIntact(t *testing.T) {
	s := ledger.Apply(baseSnapshot(), ledger.DeleteAccount{ID: "ghost"})
	if len(s.Accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(s.Accounts))
	}
}
