/*
snapshot.go - The complete business state at a point in time

PURPOSE:
  A Snapshot holds the eleven entity collections that make up a user's
  books. The mutation engine consumes a snapshot and an event and produces
  a new snapshot; the synchronizer persists whole snapshots as a single
  document per user.

INVARIANT:
  In any snapshot reachable by applying events to the initial snapshot,
  each account's Balance equals the algebraic sum of the ledger effects of
  every still-present record referencing that account, and each product's
  Stock equals the net quantity effect of still-present purchases/sales.

SEE ALSO:
  - engine.go: the only code that changes balances and stock
  - store.go: persistence interface
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// SNAPSHOT - All collections, serialized as one document per user
// =============================================================================

type Snapshot struct {
	Accounts          []Account         `json:"accounts"`
	Partners          []Partner         `json:"partners"`
	Investments       []Investment      `json:"investments"`
	Products          []Product         `json:"products"`
	Contacts          []Contact         `json:"contacts"`
	Purchases         []Purchase        `json:"purchases"`
	Sales             []Sale            `json:"sales"`
	ExpenseCategories []ExpenseCategory `json:"expenseCategories"`
	Expenses          []Expense         `json:"expenses"`
	AccountTransfers  []AccountTransfer `json:"accountTransfers"`
	CashFlows         []CashFlow        `json:"cashFlows"`
}

// DefaultSnapshot is the first-run state: a single zero-balance account and
// two stock expense categories.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Accounts: []Account{
			{ID: "acc1", Name: "Main Account", Balance: decimal.Zero},
		},
		ExpenseCategories: []ExpenseCategory{
			{ID: "ec1", Name: "Office Supplies"},
			{ID: "ec2", Name: "Utilities"},
		},
	}
}

// Clone returns a deep copy. Entity structs are value types; only slices
// (including the item/payment lines inside sales and purchases) need new
// backing arrays.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Accounts:          append([]Account(nil), s.Accounts...),
		Partners:          append([]Partner(nil), s.Partners...),
		Investments:       append([]Investment(nil), s.Investments...),
		Products:          append([]Product(nil), s.Products...),
		Contacts:          append([]Contact(nil), s.Contacts...),
		Purchases:         append([]Purchase(nil), s.Purchases...),
		Sales:             append([]Sale(nil), s.Sales...),
		ExpenseCategories: append([]ExpenseCategory(nil), s.ExpenseCategories...),
		Expenses:          append([]Expense(nil), s.Expenses...),
		AccountTransfers:  append([]AccountTransfer(nil), s.AccountTransfers...),
		CashFlows:         append([]CashFlow(nil), s.CashFlows...),
	}
	for i, sale := range out.Sales {
		out.Sales[i].Items = append([]TransactionItem(nil), sale.Items...)
		out.Sales[i].Payments = append([]Payment(nil), sale.Payments...)
	}
	for i, purchase := range out.Purchases {
		out.Purchases[i].Items = append([]TransactionItem(nil), purchase.Items...)
		out.Purchases[i].Payments = append([]Payment(nil), purchase.Payments...)
	}
	return out
}

// =============================================================================
// LOOKUPS
// =============================================================================

func (s Snapshot) AccountByID(id AccountID) (Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

func (s Snapshot) ProductByID(id ProductID) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s Snapshot) ContactByID(id ContactID) (Contact, bool) {
	for _, c := range s.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

func (s Snapshot) PartnerByID(id PartnerID) (Partner, bool) {
	for _, p := range s.Partners {
		if p.ID == id {
			return p, true
		}
	}
	return Partner{}, false
}

func (s Snapshot) CategoryByID(id CategoryID) (ExpenseCategory, bool) {
	for _, c := range s.ExpenseCategories {
		if c.ID == id {
			return c, true
		}
	}
	return ExpenseCategory{}, false
}

func (s Snapshot) SaleByID(id string) (Sale, bool) {
	for _, sale := range s.Sales {
		if sale.ID == id {
			return sale, true
		}
	}
	return Sale{}, false
}

func (s Snapshot) PurchaseByID(id string) (Purchase, bool) {
	for _, p := range s.Purchases {
		if p.ID == id {
			return p, true
		}
	}
	return Purchase{}, false
}

func (s Snapshot) ExpenseByID(id string) (Expense, bool) {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return Expense{}, false
}

func (s Snapshot) TransferByID(id string) (AccountTransfer, bool) {
	for _, t := range s.AccountTransfers {
		if t.ID == id {
			return t, true
		}
	}
	return AccountTransfer{}, false
}

func (s Snapshot) CashFlowByID(id string) (CashFlow, bool) {
	for _, cf := range s.CashFlows {
		if cf.ID == id {
			return cf, true
		}
	}
	return CashFlow{}, false
}

// TotalBalance sums the balances of all accounts.
func (s Snapshot) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}
