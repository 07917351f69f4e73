/*
Package ledger provides the core bookkeeping engine.

PURPOSE:
  This package contains the entity model and algorithms for a small-business
  ledger: accounts, partners, inventory, contacts, and the transactional
  records (sales, purchases, expenses, investments, transfers, cash flows)
  whose ledger effects keep account balances and product stock consistent.

KEY CONCEPTS IN THIS FILE (types.go):
  - Typed identifiers: AccountID, ProductID, ContactID, etc.
  - Entity records: Account, Product, Contact, Sale, Purchase, ...
  - Payment / TransactionItem: the lines that carry ledger effects

DESIGN PRINCIPLES:
  1. Purity: the engine maps (snapshot, event) -> snapshot, never mutating
     its input. Persistence and presentation live outside this package.
  2. Precision: monetary values use decimal.Decimal, never float64.
  3. Derived caches: Account.Balance and Product.Stock are maintained by
     the mutation engine only; a plain field update never overwrites them.

SEE ALSO:
  - engine.go: event application rules
  - snapshot.go: the full business state
  - reports.go: read-only aggregations
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	AccountID  string
	PartnerID  string
	ProductID  string
	ContactID  string
	CategoryID string
)

// =============================================================================
// SIMPLE ENTITIES - No cross-collection ledger effects of their own
// =============================================================================

// Account holds money. Balance is a derived cache: it always equals the sum
// of the ledger effects of every still-present record referencing the
// account, and is only ever changed by the mutation engine.
type Account struct {
	ID      AccountID       `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// Partner is a capital investor. Partners are referenced by investments and
// have no delete operation.
type Partner struct {
	ID      PartnerID `json:"id"`
	Name    string    `json:"name"`
	Contact string    `json:"contact"`
}

// Product is an inventory item. Stock is derived: increased by purchases,
// decreased by sales, never overwritten by a plain update.
type Product struct {
	ID    ProductID       `json:"id"`
	Name  string          `json:"name"`
	Size  string          `json:"size,omitempty"`
	Color string          `json:"color,omitempty"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int64           `json:"stock"`
}

type ContactType string

const (
	ContactCustomer ContactType = "customer"
	ContactSupplier ContactType = "supplier"
)

// Contact is a customer or supplier. A contact's due is derived from its
// sales/purchases, never stored.
type Contact struct {
	ID    ContactID   `json:"id"`
	Name  string      `json:"name"`
	Phone string      `json:"phone"`
	Type  ContactType `json:"type"`
}

type ExpenseCategory struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// =============================================================================
// TRANSACTIONAL RECORDS - Carry ledger effects on balances and stock
// =============================================================================

// Payment is money moved through an account as part of a sale or purchase.
type Payment struct {
	AccountID AccountID       `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionItem is one product line of a sale or purchase.
type TransactionItem struct {
	ProductID ProductID       `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Sale struct {
	ID          string            `json:"id"`
	CustomerID  ContactID         `json:"customerId"`
	Items       []TransactionItem `json:"items"`
	Date        Date              `json:"date"`
	Payments    []Payment         `json:"payments"`
	Description string            `json:"description,omitempty"`
}

type Purchase struct {
	ID          string            `json:"id"`
	SupplierID  ContactID         `json:"supplierId"`
	Items       []TransactionItem `json:"items"`
	Date        Date              `json:"date"`
	Payments    []Payment         `json:"payments"`
	Description string            `json:"description,omitempty"`
}

type Expense struct {
	ID         string          `json:"id"`
	CategoryID CategoryID      `json:"categoryId"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	Date       Date            `json:"date"`
	AccountID  AccountID       `json:"accountId"`
}

// Investment is a one-directional capital injection from a partner into an
// account. There is no delete or update operation for investments.
type Investment struct {
	ID        string          `json:"id"`
	PartnerID PartnerID       `json:"partnerId"`
	AccountID AccountID       `json:"accountId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      Date            `json:"date"`
}

type AccountTransfer struct {
	ID            string          `json:"id"`
	FromAccountID AccountID       `json:"fromAccountId"`
	ToAccountID   AccountID       `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          Date            `json:"date"`
	Description   string          `json:"description"`
}

type CashFlowType string

const (
	CashDeposit    CashFlowType = "deposit"
	CashWithdrawal CashFlowType = "withdrawal"
)

type CashFlow struct {
	ID          string          `json:"id"`
	Type        CashFlowType    `json:"type"`
	AccountID   AccountID       `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
}

// =============================================================================
// TOTALS - Shared arithmetic over items and payments
// =============================================================================

func itemsTotal(items []TransactionItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

func paymentsTotal(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Total is the sum of quantity x price over all items.
func (s Sale) Total() decimal.Decimal { return itemsTotal(s.Items) }

// Paid is the sum of all payment amounts.
func (s Sale) Paid() decimal.Decimal { return paymentsTotal(s.Payments) }

// Due is Total - Paid. May be negative if overpaid; reports treat <= 0 as
// settled.
func (s Sale) Due() decimal.Decimal { return s.Total().Sub(s.Paid()) }

func (p Purchase) Total() decimal.Decimal { return itemsTotal(p.Items) }
func (p Purchase) Paid() decimal.Decimal  { return paymentsTotal(p.Payments) }
func (p Purchase) Due() decimal.Decimal   { return p.Total().Sub(p.Paid()) }
