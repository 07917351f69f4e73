/*
events.go - Tagged event variants consumed by the mutation engine

PURPOSE:
  Every change to the books is expressed as one of these event types and
  handed to Apply. The closed set of variants replaces stringly-typed
  collection dispatch: the compiler checks that a handler exists for every
  event kind.

EVENT FAMILIES:
  1. Transactional events (Sale, Purchase, Expense, Investment,
     AccountTransfer, CashFlow): trigger cross-entity ledger effects on
     account balances and product stock.
  2. Entity events (Account, Partner, Product, Contact, ExpenseCategory):
     plain collection membership changes with no side effects.

UPDATE SEMANTICS:
  Update events carry both the old and the new record. The engine applies
  them as delete-old-then-add-new (reversal-replay), never as a field diff.
  Delete events carry the full record, not just an ID: the reversal needs
  the record's items and payments to undo its ledger effects.
*/
package ledger

// Event is a single change to the books. The concrete types below form a
// closed set; Apply handles every one of them.
type Event interface {
	isEvent()
}

// =============================================================================
// TRANSACTIONAL EVENTS
// =============================================================================

type AddSale struct{ Sale Sale }
type DeleteSale struct{ Sale Sale }
type UpdateSale struct{ Old, New Sale }

type AddPurchase struct{ Purchase Purchase }
type DeletePurchase struct{ Purchase Purchase }
type UpdatePurchase struct{ Old, New Purchase }

type AddExpense struct{ Expense Expense }
type DeleteExpense struct{ Expense Expense }
type UpdateExpense struct{ Old, New Expense }

// AddInvestment is one-directional: investments have no delete or update.
type AddInvestment struct{ Investment Investment }

type AddAccountTransfer struct{ Transfer AccountTransfer }
type DeleteAccountTransfer struct{ Transfer AccountTransfer }
type UpdateAccountTransfer struct{ Old, New AccountTransfer }

type AddCashFlow struct{ CashFlow CashFlow }
type DeleteCashFlow struct{ CashFlow CashFlow }
type UpdateCashFlow struct{ Old, New CashFlow }

// =============================================================================
// ENTITY EVENTS - Direct collection membership, no ledger effects
// =============================================================================

type AddAccount struct{ Account Account }

// UpdateAccount replaces the account's editable fields. The stored Balance
// is preserved; it belongs to the mutation engine, not the caller.
type UpdateAccount struct{ Account Account }
type DeleteAccount struct{ ID AccountID }

type AddPartner struct{ Partner Partner }
type UpdatePartner struct{ Partner Partner }

type AddProduct struct{ Product Product }

// UpdateProduct replaces the product's editable fields. The stored Stock is
// preserved.
type UpdateProduct struct{ Product Product }
type DeleteProduct struct{ ID ProductID }

type AddContact struct{ Contact Contact }
type UpdateContact struct{ Contact Contact }
type DeleteContact struct{ ID ContactID }

type AddExpenseCategory struct{ Category ExpenseCategory }
type UpdateExpenseCategory struct{ Category ExpenseCategory }
type DeleteExpenseCategory struct{ ID CategoryID }

func (AddSale) isEvent()               {}
func (DeleteSale) isEvent()            {}
func (UpdateSale) isEvent()            {}
func (AddPurchase) isEvent()           {}
func (DeletePurchase) isEvent()        {}
func (UpdatePurchase) isEvent()        {}
func (AddExpense) isEvent()            {}
func (DeleteExpense) isEvent()         {}
func (UpdateExpense) isEvent()         {}
func (AddInvestment) isEvent()         {}
func (AddAccountTransfer) isEvent()    {}
func (DeleteAccountTransfer) isEvent() {}
func (UpdateAccountTransfer) isEvent() {}
func (AddCashFlow) isEvent()           {}
func (DeleteCashFlow) isEvent()        {}
func (UpdateCashFlow) isEvent()        {}
func (AddAccount) isEvent()            {}
func (UpdateAccount) isEvent()         {}
func (DeleteAccount) isEvent()         {}
func (AddPartner) isEvent()            {}
func (UpdatePartner) isEvent()         {}
func (AddProduct) isEvent()            {}
func (UpdateProduct) isEvent()         {}
func (DeleteProduct) isEvent()         {}
func (AddContact) isEvent()            {}
func (UpdateContact) isEvent()         {}
func (DeleteContact) isEvent()         {}
func (AddExpenseCategory) isEvent()    {}
func (UpdateExpenseCategory) isEvent() {}
func (DeleteExpenseCategory) isEvent() {}
