/*
validate.go - Caller-side input validation

PURPOSE:
  The engine is deliberately thin: it applies whatever event it is given,
  including zero or negative amounts. These checks run before submission
  (Session.Submit calls them; direct Apply callers may too) and reject bad
  input with no state change.

Checks: positive transfer amount, distinct transfer endpoints, positive
cash-flow and expense amounts.
*/
package ledger

// ValidateTransfer rejects non-positive amounts and identical endpoints.
func ValidateTransfer(t AccountTransfer) error {
	if !t.Amount.IsPositive() {
		return &ValidationError{Field: "transfer amount", Err: ErrNonPositiveAmount}
	}
	if t.FromAccountID == t.ToAccountID {
		return &ValidationError{Field: "transfer accounts", Err: ErrSameTransferAccount}
	}
	return nil
}

// ValidateExpense rejects non-positive amounts.
func ValidateExpense(e Expense) error {
	if !e.Amount.IsPositive() {
		return &ValidationError{Field: "expense amount", Err: ErrNonPositiveAmount}
	}
	return nil
}

// ValidateCashFlow rejects non-positive amounts.
func ValidateCashFlow(cf CashFlow) error {
	if !cf.Amount.IsPositive() {
		return &ValidationError{Field: "cash flow amount", Err: ErrNonPositiveAmount}
	}
	return nil
}

// validateEvent routes an event to the check for its kind. Events without
// caller-side rules pass through.
func validateEvent(e Event) error {
	switch ev := e.(type) {
	case AddAccountTransfer:
		return ValidateTransfer(ev.Transfer)
	case UpdateAccountTransfer:
		return ValidateTransfer(ev.New)
	case AddExpense:
		return ValidateExpense(ev.Expense)
	case UpdateExpense:
		return ValidateExpense(ev.New)
	case AddCashFlow:
		return ValidateCashFlow(ev.CashFlow)
	case UpdateCashFlow:
		return ValidateCashFlow(ev.New)
	}
	return nil
}
