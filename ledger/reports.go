/*
reports.go - Derived, read-only aggregations over a snapshot

PURPOSE:
  Everything a report screen or export needs, computed from the snapshot
  without mutating it: dues per contact, account ledgers with running
  balances, profit & loss, flattened sales/purchase/expense rows, partner
  ledgers, and the dashboard summary.

ACCOUNT LEDGER RECONSTRUCTION:
  Only the current balance is persisted; there is no balance history. The
  opening balance for a window is therefore reconstructed in two passes:
  back out the net effect of everything dated after the window from the
  current balance (giving the balance at end of period), then back out the
  in-window net effect (giving the opening balance). Replaying the window
  chronologically from the opening balance must land exactly on the
  end-of-period figure; that equality is the report's self-check.

COGS:
  Cost of goods sold uses the product's CURRENT cost, not the cost at time
  of sale. Known simplification; there is no stored cost history to do
  better with.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SORTING - Column sort with ascending/descending direction
// =============================================================================

// SortSpec names a report column and direction. Reports apply their own
// default when the key is empty; an unknown key leaves the default order.
type SortSpec struct {
	Key        string
	Descending bool
}

func sortDirection(less bool, descending bool) bool {
	if descending {
		return !less
	}
	return less
}

// =============================================================================
// DUES - Outstanding receivables/payables per contact
// =============================================================================

// Dues returns the accumulated positive dues per contact for sales and
// purchases dated within the range. Contacts with nothing outstanding are
// absent; no entry is ever <= 0.
func Dues(s Snapshot, r DateRange) map[ContactID]decimal.Decimal {
	dues := make(map[ContactID]decimal.Decimal)
	for _, sale := range s.Sales {
		if !r.Contains(sale.Date) {
			continue
		}
		if due := sale.Due(); due.IsPositive() {
			dues[sale.CustomerID] = dues[sale.CustomerID].Add(due)
		}
	}
	for _, purchase := range s.Purchases {
		if !r.Contains(purchase.Date) {
			continue
		}
		if due := purchase.Due(); due.IsPositive() {
			dues[purchase.SupplierID] = dues[purchase.SupplierID].Add(due)
		}
	}
	return dues
}

// DueRow is one contact's outstanding total, with contact details resolved
// for display and export.
type DueRow struct {
	ContactID ContactID       `json:"contactId"`
	Name      string          `json:"name"`
	Type      ContactType     `json:"type"`
	Phone     string          `json:"phone"`
	Due       decimal.Decimal `json:"due"`
}

// DuesReport lists contacts with positive dues in the range. Default order
// is due descending.
func DuesReport(s Snapshot, r DateRange, spec SortSpec) []DueRow {
	dues := Dues(s, r)
	rows := make([]DueRow, 0, len(dues))
	for _, c := range s.Contacts {
		if due, ok := dues[c.ID]; ok {
			rows = append(rows, DueRow{ContactID: c.ID, Name: c.Name, Type: c.Type, Phone: c.Phone, Due: due})
		}
	}
	if spec.Key == "" {
		spec = SortSpec{Key: "due", Descending: true}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch spec.Key {
		case "name":
			less = a.Name < b.Name
		case "type":
			less = a.Type < b.Type
		case "phone":
			less = a.Phone < b.Phone
		case "due":
			less = a.Due.LessThan(b.Due)
		default:
			return false
		}
		return sortDirection(less, spec.Descending)
	})
	return rows
}

// DueEntry is one outstanding sale or purchase in a contact's drill-down.
type DueEntry struct {
	RecordID string          `json:"recordId"`
	Date     Date            `json:"date"`
	Kind     string          `json:"kind"` // "sale" or "purchase"
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Due      decimal.Decimal `json:"due"`
}

// DueDetail lists a contact's individual outstanding records, newest first.
// Looks at the full history, not a date window.
func DueDetail(s Snapshot, contactID ContactID) []DueEntry {
	var entries []DueEntry
	for _, sale := range s.Sales {
		if sale.CustomerID != contactID {
			continue
		}
		if due := sale.Due(); due.IsPositive() {
			entries = append(entries, DueEntry{
				RecordID: sale.ID, Date: sale.Date, Kind: "sale",
				Total: sale.Total(), Paid: sale.Paid(), Due: due,
			})
		}
	}
	for _, purchase := range s.Purchases {
		if purchase.SupplierID != contactID {
			continue
		}
		if due := purchase.Due(); due.IsPositive() {
			entries = append(entries, DueEntry{
				RecordID: purchase.ID, Date: purchase.Date, Kind: "purchase",
				Total: purchase.Total(), Paid: purchase.Paid(), Due: due,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries
}

// =============================================================================
// ACCOUNT LEDGER
// =============================================================================

// LedgerEntry is one in-window movement on the selected account.
type LedgerEntry struct {
	RecordID    string          `json:"recordId"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// LedgerReport is an account's activity within a window, bracketed by the
// reconstructed opening and closing balances.
type LedgerReport struct {
	AccountID AccountID       `json:"accountId"`
	Opening   decimal.Decimal `json:"opening"`
	Entries   []LedgerEntry   `json:"entries"`
	Closing   decimal.Decimal `json:"closing"`
}

// AccountLedger reconstructs the account's ledger for the window. Returns
// ErrAccountNotFound if the account is not in the snapshot.
func AccountLedger(s Snapshot, accountID AccountID, r DateRange) (LedgerReport, error) {
	account, ok := s.AccountByID(accountID)
	if !ok {
		return LedgerReport{}, ErrAccountNotFound
	}

	// Pass 1: back out everything after the window from the current
	// balance to get the balance at end of period.
	afterNet := accountNet(s, accountID, func(d Date) bool { return d.After(r.End) })
	balanceAtEnd := account.Balance.Sub(afterNet)

	// Pass 2: back out the in-window net to get the opening balance.
	windowNet := accountNet(s, accountID, r.Contains)
	opening := balanceAtEnd.Sub(windowNet)

	entries := accountEntries(s, accountID, r)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	running := opening
	for i := range entries {
		running = running.Add(entries[i].Credit).Sub(entries[i].Debit)
		entries[i].Balance = running
	}

	// running now equals balanceAtEnd by construction.
	return LedgerReport{AccountID: accountID, Opening: opening, Entries: entries, Closing: running}, nil
}

// accountNet sums the signed effect on the account of every transaction
// whose date satisfies the predicate.
func accountNet(s Snapshot, accountID AccountID, include func(Date) bool) decimal.Decimal {
	net := decimal.Zero
	for _, sale := range s.Sales {
		if !include(sale.Date) {
			continue
		}
		for _, p := range sale.Payments {
			if p.AccountID == accountID {
				net = net.Add(p.Amount)
			}
		}
	}
	for _, purchase := range s.Purchases {
		if !include(purchase.Date) {
			continue
		}
		for _, p := range purchase.Payments {
			if p.AccountID == accountID {
				net = net.Sub(p.Amount)
			}
		}
	}
	for _, e := range s.Expenses {
		if include(e.Date) && e.AccountID == accountID {
			net = net.Sub(e.Amount)
		}
	}
	for _, inv := range s.Investments {
		if include(inv.Date) && inv.AccountID == accountID {
			net = net.Add(inv.Amount)
		}
	}
	for _, t := range s.AccountTransfers {
		if !include(t.Date) {
			continue
		}
		if t.FromAccountID == accountID {
			net = net.Sub(t.Amount)
		}
		if t.ToAccountID == accountID {
			net = net.Add(t.Amount)
		}
	}
	for _, cf := range s.CashFlows {
		if include(cf.Date) && cf.AccountID == accountID {
			net = net.Add(cashFlowDelta(cf))
		}
	}
	return net
}

// accountEntries builds the display rows for in-window movements.
func accountEntries(s Snapshot, accountID AccountID, r DateRange) []LedgerEntry {
	var entries []LedgerEntry

	contactName := func(id ContactID) string {
		if c, ok := s.ContactByID(id); ok {
			return c.Name
		}
		return "N/A"
	}
	accountName := func(id AccountID) string {
		if a, ok := s.AccountByID(id); ok {
			return a.Name
		}
		return "N/A"
	}

	for _, sale := range s.Sales {
		if !r.Contains(sale.Date) {
			continue
		}
		for _, p := range sale.Payments {
			if p.AccountID == accountID {
				entries = append(entries, LedgerEntry{
					RecordID: sale.ID, Date: sale.Date,
					Description: "Sale to " + contactName(sale.CustomerID),
					Credit:      p.Amount, Debit: decimal.Zero,
				})
			}
		}
	}
	for _, purchase := range s.Purchases {
		if !r.Contains(purchase.Date) {
			continue
		}
		for _, p := range purchase.Payments {
			if p.AccountID == accountID {
				entries = append(entries, LedgerEntry{
					RecordID: purchase.ID, Date: purchase.Date,
					Description: "Purchase from " + contactName(purchase.SupplierID),
					Debit:       p.Amount, Credit: decimal.Zero,
				})
			}
		}
	}
	for _, e := range s.Expenses {
		if r.Contains(e.Date) && e.AccountID == accountID {
			entries = append(entries, LedgerEntry{
				RecordID: e.ID, Date: e.Date,
				Description: "Expense: " + e.Item,
				Debit:       e.Amount, Credit: decimal.Zero,
			})
		}
	}
	for _, inv := range s.Investments {
		if r.Contains(inv.Date) && inv.AccountID == accountID {
			name := "N/A"
			if partner, ok := s.PartnerByID(inv.PartnerID); ok {
				name = partner.Name
			}
			entries = append(entries, LedgerEntry{
				RecordID: inv.ID, Date: inv.Date,
				Description: "Investment from " + name,
				Credit:      inv.Amount, Debit: decimal.Zero,
			})
		}
	}
	for _, t := range s.AccountTransfers {
		if !r.Contains(t.Date) {
			continue
		}
		if t.FromAccountID == accountID {
			entries = append(entries, LedgerEntry{
				RecordID: t.ID, Date: t.Date,
				Description: "Transfer to " + accountName(t.ToAccountID),
				Debit:       t.Amount, Credit: decimal.Zero,
			})
		}
		if t.ToAccountID == accountID {
			entries = append(entries, LedgerEntry{
				RecordID: t.ID, Date: t.Date,
				Description: "Transfer from " + accountName(t.FromAccountID),
				Credit:      t.Amount, Debit: decimal.Zero,
			})
		}
	}
	for _, cf := range s.CashFlows {
		if !r.Contains(cf.Date) || cf.AccountID != accountID {
			continue
		}
		entry := LedgerEntry{RecordID: cf.ID, Date: cf.Date, Description: cf.Description,
			Debit: decimal.Zero, Credit: decimal.Zero}
		if cf.Type == CashDeposit {
			entry.Credit = cf.Amount
		} else {
			entry.Debit = cf.Amount
		}
		entries = append(entries, entry)
	}
	return entries
}

// =============================================================================
// PROFIT & LOSS
// =============================================================================

type ProfitLossReport struct {
	Revenue       decimal.Decimal `json:"revenue"`
	COGS          decimal.Decimal `json:"cogs"`
	GrossProfit   decimal.Decimal `json:"grossProfit"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// ProfitLoss computes the P&L figures for the window. COGS values sale
// lines at the product's current cost.
func ProfitLoss(s Snapshot, r DateRange) ProfitLossReport {
	revenue := decimal.Zero
	cogs := decimal.Zero
	for _, sale := range s.Sales {
		if !r.Contains(sale.Date) {
			continue
		}
		revenue = revenue.Add(sale.Total())
		for _, it := range sale.Items {
			if product, ok := s.ProductByID(it.ProductID); ok {
				cogs = cogs.Add(product.Cost.Mul(decimal.NewFromInt(it.Quantity)))
			}
		}
	}

	expenses := decimal.Zero
	for _, e := range s.Expenses {
		if r.Contains(e.Date) {
			expenses = expenses.Add(e.Amount)
		}
	}

	gross := revenue.Sub(cogs)
	return ProfitLossReport{
		Revenue:       revenue,
		COGS:          cogs,
		GrossProfit:   gross,
		TotalExpenses: expenses,
		NetProfit:     gross.Sub(expenses),
	}
}

// =============================================================================
// LINE-ITEM REPORTS
// =============================================================================

// TradeRow is one flattened sale or purchase line.
type TradeRow struct {
	RecordID    string          `json:"recordId"`
	Date        Date            `json:"date"`
	ContactName string          `json:"contactName"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// SalesReport flattens in-window sales to one row per item line. Default
// order is date descending.
func SalesReport(s Snapshot, r DateRange, spec SortSpec) []TradeRow {
	var rows []TradeRow
	for _, sale := range s.Sales {
		if !r.Contains(sale.Date) {
			continue
		}
		rows = append(rows, tradeRows(s, sale.ID, sale.Date, string(sale.CustomerID), sale.Items)...)
	}
	sortTradeRows(rows, spec)
	return rows
}

// PurchasesReport flattens in-window purchases to one row per item line.
func PurchasesReport(s Snapshot, r DateRange, spec SortSpec) []TradeRow {
	var rows []TradeRow
	for _, purchase := range s.Purchases {
		if !r.Contains(purchase.Date) {
			continue
		}
		rows = append(rows, tradeRows(s, purchase.ID, purchase.Date, string(purchase.SupplierID), purchase.Items)...)
	}
	sortTradeRows(rows, spec)
	return rows
}

func tradeRows(s Snapshot, recordID string, date Date, contactID string, items []TransactionItem) []TradeRow {
	contact := "N/A"
	if c, ok := s.ContactByID(ContactID(contactID)); ok {
		contact = c.Name
	}
	rows := make([]TradeRow, 0, len(items))
	for _, it := range items {
		productName := "N/A"
		if p, ok := s.ProductByID(it.ProductID); ok {
			productName = p.Name
		}
		rows = append(rows, TradeRow{
			RecordID: recordID, Date: date, ContactName: contact,
			ProductName: productName, Quantity: it.Quantity, Price: it.Price,
			Total: it.Price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return rows
}

func sortTradeRows(rows []TradeRow, spec SortSpec) {
	if spec.Key == "" {
		spec = SortSpec{Key: "date", Descending: true}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch spec.Key {
		case "date":
			less = a.Date.Before(b.Date)
		case "contact":
			less = a.ContactName < b.ContactName
		case "product":
			less = a.ProductName < b.ProductName
		case "quantity":
			less = a.Quantity < b.Quantity
		case "price":
			less = a.Price.LessThan(b.Price)
		case "total":
			less = a.Total.LessThan(b.Total)
		default:
			return false
		}
		return sortDirection(less, spec.Descending)
	})
}

// ExpenseRow is one in-window expense with its category resolved.
type ExpenseRow struct {
	RecordID     string          `json:"recordId"`
	Date         Date            `json:"date"`
	CategoryName string          `json:"categoryName"`
	Item         string          `json:"item"`
	Amount       decimal.Decimal `json:"amount"`
}

// ExpensesReport lists in-window expenses, date descending by default.
func ExpensesReport(s Snapshot, r DateRange, spec SortSpec) []ExpenseRow {
	var rows []ExpenseRow
	for _, e := range s.Expenses {
		if !r.Contains(e.Date) {
			continue
		}
		category := "N/A"
		if c, ok := s.CategoryByID(e.CategoryID); ok {
			category = c.Name
		}
		rows = append(rows, ExpenseRow{
			RecordID: e.ID, Date: e.Date, CategoryName: category,
			Item: e.Item, Amount: e.Amount,
		})
	}
	if spec.Key == "" {
		spec = SortSpec{Key: "date", Descending: true}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch spec.Key {
		case "date":
			less = a.Date.Before(b.Date)
		case "category":
			less = a.CategoryName < b.CategoryName
		case "item":
			less = a.Item < b.Item
		case "amount":
			less = a.Amount.LessThan(b.Amount)
		default:
			return false
		}
		return sortDirection(less, spec.Descending)
	})
	return rows
}

// InvestmentRow is one of a partner's in-window investments.
type InvestmentRow struct {
	RecordID    string          `json:"recordId"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	AccountName string          `json:"accountName"`
}

// PartnerLedger lists a partner's investments in the window, date
// descending by default.
func PartnerLedger(s Snapshot, partnerID PartnerID, r DateRange) []InvestmentRow {
	var rows []InvestmentRow
	for _, inv := range s.Investments {
		if inv.PartnerID != partnerID || !r.Contains(inv.Date) {
			continue
		}
		account := "N/A"
		if a, ok := s.AccountByID(inv.AccountID); ok {
			account = a.Name
		}
		rows = append(rows, InvestmentRow{
			RecordID: inv.ID, Date: inv.Date, Amount: inv.Amount, AccountName: account,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
	return rows
}

// =============================================================================
// DASHBOARD
// =============================================================================

type DailyTotal struct {
	Date   Date            `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type StockLevel struct {
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type DashboardSummary struct {
	TotalBalance decimal.Decimal `json:"totalBalance"`
	ProductCount int             `json:"productCount"`
	PartnerCount int             `json:"partnerCount"`
	SaleCount    int             `json:"saleCount"`
	SalesByDay   []DailyTotal    `json:"salesByDay"`
	StockLevels  []StockLevel    `json:"stockLevels"`
}

// Dashboard summarizes the whole snapshot: headline figures, sales totals
// grouped by day, and per-product stock levels.
func Dashboard(s Snapshot) DashboardSummary {
	byDay := make(map[Date]decimal.Decimal)
	for _, sale := range s.Sales {
		byDay[sale.Date] = byDay[sale.Date].Add(sale.Total())
	}
	days := make([]DailyTotal, 0, len(byDay))
	for d, amount := range byDay {
		days = append(days, DailyTotal{Date: d, Amount: amount})
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	levels := make([]StockLevel, 0, len(s.Products))
	for _, p := range s.Products {
		levels = append(levels, StockLevel{Name: p.Name, Stock: p.Stock})
	}

	return DashboardSummary{
		TotalBalance: s.TotalBalance(),
		ProductCount: len(s.Products),
		PartnerCount: len(s.Partners),
		SaleCount:    len(s.Sales),
		SalesByDay:   days,
		StockLevels:  levels,
	}
}
