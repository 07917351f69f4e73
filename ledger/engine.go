/*
engine.go - The ledger mutation engine

PURPOSE:
  Apply maps (snapshot, event) to a new snapshot, keeping account balances
  and product stock consistent with the set of still-present records. It is
  pure: the input snapshot is never mutated, and the same inputs always
  produce the same output.

LEDGER EFFECTS:
  Add Sale        stock -= qty per item     balance += amount per payment
  Add Purchase    stock += qty per item     balance -= amount per payment
  Add Expense     -                         balance -= amount
  Add Investment  -                         balance += amount
  Add Transfer    -                         from -= amount, to += amount
  Add CashFlow    -                         deposit: +amount, withdrawal: -amount
  Delete X        exact inverse of Add X

REFERENCE POLICY:
  A payment or item referencing a missing account/product is skipped; the
  rest of the event still applies. Known soft-failure mode, kept lenient on
  purpose. The one exception is AccountTransfer: if either endpoint is
  missing the whole event is a no-op and the transfer is not recorded.

UPDATES:
  Update(old, new) is Apply(Apply(s, Delete(old)), Add(new)) - reversal
  then replay, composed as pure functions. The reversal of old's effects
  completes before new's effects begin, so old and new touching different
  (or partially overlapping) accounts and products is correct by
  construction.

VALIDATION:
  None. The engine applies whatever it is given, including zero or negative
  amounts. Input sanitization is the caller's job (see validate.go and
  Session.Submit).
*/
package ledger

import "github.com/shopspring/decimal"

// Apply returns the snapshot that results from applying one event. The
// input snapshot is left untouched.
func Apply(s Snapshot, e Event) Snapshot {
	switch ev := e.(type) {

	// --- Sales ---
	case AddSale:
		next := s.Clone()
		applyTradeEffects(&next, ev.Sale.Items, ev.Sale.Payments, -1, +1)
		next.Sales = append(next.Sales, ev.Sale)
		return next
	case DeleteSale:
		next := s.Clone()
		applyTradeEffects(&next, ev.Sale.Items, ev.Sale.Payments, +1, -1)
		next.Sales = deleteSale(next.Sales, ev.Sale.ID)
		return next
	case UpdateSale:
		return Apply(Apply(s, DeleteSale{Sale: ev.Old}), AddSale{Sale: ev.New})

	// --- Purchases ---
	case AddPurchase:
		next := s.Clone()
		applyTradeEffects(&next, ev.Purchase.Items, ev.Purchase.Payments, +1, -1)
		next.Purchases = append(next.Purchases, ev.Purchase)
		return next
	case DeletePurchase:
		next := s.Clone()
		applyTradeEffects(&next, ev.Purchase.Items, ev.Purchase.Payments, -1, +1)
		next.Purchases = deletePurchase(next.Purchases, ev.Purchase.ID)
		return next
	case UpdatePurchase:
		return Apply(Apply(s, DeletePurchase{Purchase: ev.Old}), AddPurchase{Purchase: ev.New})

	// --- Expenses ---
	case AddExpense:
		next := s.Clone()
		adjustBalance(next.Accounts, ev.Expense.AccountID, ev.Expense.Amount.Neg())
		next.Expenses = append(next.Expenses, ev.Expense)
		return next
	case DeleteExpense:
		next := s.Clone()
		adjustBalance(next.Accounts, ev.Expense.AccountID, ev.Expense.Amount)
		next.Expenses = deleteExpense(next.Expenses, ev.Expense.ID)
		return next
	case UpdateExpense:
		return Apply(Apply(s, DeleteExpense{Expense: ev.Old}), AddExpense{Expense: ev.New})

	// --- Investments ---
	case AddInvestment:
		next := s.Clone()
		adjustBalance(next.Accounts, ev.Investment.AccountID, ev.Investment.Amount)
		next.Investments = append(next.Investments, ev.Investment)
		return next

	// --- Account transfers ---
	case AddAccountTransfer:
		// A transfer is all-or-nothing: a missing endpoint rejects the
		// whole event, unlike the per-line skip elsewhere.
		if !transferResolvable(s, ev.Transfer) {
			return s
		}
		next := s.Clone()
		adjustBalance(next.Accounts, ev.Transfer.FromAccountID, ev.Transfer.Amount.Neg())
		adjustBalance(next.Accounts, ev.Transfer.ToAccountID, ev.Transfer.Amount)
		next.AccountTransfers = append(next.AccountTransfers, ev.Transfer)
		return next
	case DeleteAccountTransfer:
		if !transferResolvable(s, ev.Transfer) {
			return s
		}
		next := s.Clone()
		adjustBalance(next.Accounts, ev.Transfer.FromAccountID, ev.Transfer.Amount)
		adjustBalance(next.Accounts, ev.Transfer.ToAccountID, ev.Transfer.Amount.Neg())
		next.AccountTransfers = deleteTransfer(next.AccountTransfers, ev.Transfer.ID)
		return next
	case UpdateAccountTransfer:
		return Apply(Apply(s, DeleteAccountTransfer{Transfer: ev.Old}), AddAccountTransfer{Transfer: ev.New})

	// --- Cash flows ---
	case AddCashFlow:
		next := s.Clone()
		adjustBalance(next.Accounts, ev.CashFlow.AccountID, cashFlowDelta(ev.CashFlow))
		next.CashFlows = append(next.CashFlows, ev.CashFlow)
		return next
	case DeleteCashFlow:
		next := s.Clone()
		adjustBalance(next.Accounts, ev.CashFlow.AccountID, cashFlowDelta(ev.CashFlow).Neg())
		next.CashFlows = deleteCashFlow(next.CashFlows, ev.CashFlow.ID)
		return next
	case UpdateCashFlow:
		return Apply(Apply(s, DeleteCashFlow{CashFlow: ev.Old}), AddCashFlow{CashFlow: ev.New})

	// --- Accounts ---
	case AddAccount:
		next := s.Clone()
		next.Accounts = append(next.Accounts, ev.Account)
		return next
	case UpdateAccount:
		next := s.Clone()
		for i, a := range next.Accounts {
			if a.ID == ev.Account.ID {
				updated := ev.Account
				updated.Balance = a.Balance // derived, caller cannot set it
				next.Accounts[i] = updated
			}
		}
		return next
	case DeleteAccount:
		next := s.Clone()
		kept := next.Accounts[:0]
		for _, a := range next.Accounts {
			if a.ID != ev.ID {
				kept = append(kept, a)
			}
		}
		next.Accounts = kept
		return next

	// --- Partners ---
	case AddPartner:
		next := s.Clone()
		next.Partners = append(next.Partners, ev.Partner)
		return next
	case UpdatePartner:
		next := s.Clone()
		for i, p := range next.Partners {
			if p.ID == ev.Partner.ID {
				next.Partners[i] = ev.Partner
			}
		}
		return next

	// --- Products ---
	case AddProduct:
		next := s.Clone()
		next.Products = append(next.Products, ev.Product)
		return next
	case UpdateProduct:
		next := s.Clone()
		for i, p := range next.Products {
			if p.ID == ev.Product.ID {
				updated := ev.Product
				updated.Stock = p.Stock // derived, caller cannot set it
				next.Products[i] = updated
			}
		}
		return next
	case DeleteProduct:
		next := s.Clone()
		kept := next.Products[:0]
		for _, p := range next.Products {
			if p.ID != ev.ID {
				kept = append(kept, p)
			}
		}
		next.Products = kept
		return next

	// --- Contacts ---
	case AddContact:
		next := s.Clone()
		next.Contacts = append(next.Contacts, ev.Contact)
		return next
	case UpdateContact:
		next := s.Clone()
		for i, c := range next.Contacts {
			if c.ID == ev.Contact.ID {
				next.Contacts[i] = ev.Contact
			}
		}
		return next
	case DeleteContact:
		next := s.Clone()
		kept := next.Contacts[:0]
		for _, c := range next.Contacts {
			if c.ID != ev.ID {
				kept = append(kept, c)
			}
		}
		next.Contacts = kept
		return next

	// --- Expense categories ---
	case AddExpenseCategory:
		next := s.Clone()
		next.ExpenseCategories = append(next.ExpenseCategories, ev.Category)
		return next
	case UpdateExpenseCategory:
		next := s.Clone()
		for i, c := range next.ExpenseCategories {
			if c.ID == ev.Category.ID {
				next.ExpenseCategories[i] = ev.Category
			}
		}
		return next
	case DeleteExpenseCategory:
		next := s.Clone()
		kept := next.ExpenseCategories[:0]
		for _, c := range next.ExpenseCategories {
			if c.ID != ev.ID {
				kept = append(kept, c)
			}
		}
		next.ExpenseCategories = kept
		return next
	}

	return s
}

// =============================================================================
// EFFECT HELPERS
// =============================================================================

// applyTradeEffects applies the stock and balance deltas of a sale or
// purchase. stockSign/balanceSign are +1 or -1: a sale consumes stock and
// credits accounts, a purchase is the mirror image, and deletes flip both
// signs.
func applyTradeEffects(s *Snapshot, items []TransactionItem, payments []Payment, stockSign int64, balanceSign int64) {
	for _, it := range items {
		adjustStock(s.Products, it.ProductID, stockSign*it.Quantity)
	}
	sign := decimal.NewFromInt(balanceSign)
	for _, p := range payments {
		adjustBalance(s.Accounts, p.AccountID, p.Amount.Mul(sign))
	}
}

// adjustBalance adds delta to the named account's balance. A missing
// account is skipped silently; the effect is simply lost.
func adjustBalance(accounts []Account, id AccountID, delta decimal.Decimal) {
	for i, a := range accounts {
		if a.ID == id {
			accounts[i].Balance = a.Balance.Add(delta)
			return
		}
	}
}

// adjustStock adds delta units to the named product's stock. A missing
// product is skipped silently.
func adjustStock(products []Product, id ProductID, delta int64) {
	for i, p := range products {
		if p.ID == id {
			products[i].Stock = p.Stock + delta
			return
		}
	}
}

func cashFlowDelta(cf CashFlow) decimal.Decimal {
	if cf.Type == CashDeposit {
		return cf.Amount
	}
	return cf.Amount.Neg()
}

func transferResolvable(s Snapshot, t AccountTransfer) bool {
	_, fromOK := s.AccountByID(t.FromAccountID)
	_, toOK := s.AccountByID(t.ToAccountID)
	return fromOK && toOK
}

// =============================================================================
// COLLECTION FILTERS
// =============================================================================

func deleteSale(sales []Sale, id string) []Sale {
	kept := sales[:0]
	for _, s := range sales {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return kept
}

func deletePurchase(purchases []Purchase, id string) []Purchase {
	kept := purchases[:0]
	for _, p := range purchases {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}

func deleteExpense(expenses []Expense, id string) []Expense {
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return kept
}

func deleteTransfer(transfers []AccountTransfer, id string) []AccountTransfer {
	kept := transfers[:0]
	for _, t := range transfers {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return kept
}

func deleteCashFlow(flows []CashFlow, id string) []CashFlow {
	kept := flows[:0]
	for _, cf := range flows {
		if cf.ID != id {
			kept = append(kept, cf)
		}
	}
	return kept
}
