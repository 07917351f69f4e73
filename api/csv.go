/*
csv.go - CSV rendering of report rows

PURPOSE:
  Turns aggregator outputs into downloadable CSV. Rows are written exactly
  as the aggregators produce them; the account ledger export brackets its
  entries with opening and closing balance rows like the on-screen table.
*/
package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/warp/ledger-engine/ledger"
)

func csvStart(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
	return csv.NewWriter(w)
}

func writeDuesCSV(w http.ResponseWriter, rows []ledger.DueRow) {
	cw := csvStart(w, "dues_report")
	cw.Write([]string{"Name", "Type", "Phone", "Due Amount"})
	for _, row := range rows {
		cw.Write([]string{row.Name, string(row.Type), row.Phone, row.Due.String()})
	}
	cw.Flush()
}

func writeTradeCSV(w http.ResponseWriter, filename, contactHeader string, rows []ledger.TradeRow) {
	cw := csvStart(w, filename)
	cw.Write([]string{"Date", contactHeader, "Product", "Qty", "Price", "Total"})
	for _, row := range rows {
		cw.Write([]string{
			row.Date.String(), row.ContactName, row.ProductName,
			strconv.FormatInt(row.Quantity, 10), row.Price.String(), row.Total.String(),
		})
	}
	cw.Flush()
}

func writeExpensesCSV(w http.ResponseWriter, rows []ledger.ExpenseRow) {
	cw := csvStart(w, "expenses_report")
	cw.Write([]string{"Date", "Category", "Item", "Amount"})
	for _, row := range rows {
		cw.Write([]string{row.Date.String(), row.CategoryName, row.Item, row.Amount.String()})
	}
	cw.Flush()
}

func writeAccountLedgerCSV(w http.ResponseWriter, report ledger.LedgerReport) {
	cw := csvStart(w, "account_ledger_report")
	cw.Write([]string{"Date", "Description", "Debit", "Credit", "Balance"})
	cw.Write([]string{"", "Opening Balance", "", "", report.Opening.String()})
	for _, e := range report.Entries {
		cw.Write([]string{
			e.Date.String(), e.Description, e.Debit.String(), e.Credit.String(), e.Balance.String(),
		})
	}
	cw.Write([]string{"", "Closing Balance", "", "", report.Closing.String()})
	cw.Flush()
}

func writePartnerLedgerCSV(w http.ResponseWriter, rows []ledger.InvestmentRow) {
	cw := csvStart(w, "partner_ledger_report")
	cw.Write([]string{"Date", "Account", "Amount"})
	for _, row := range rows {
		cw.Write([]string{row.Date.String(), row.AccountName, row.Amount.String()})
	}
	cw.Flush()
}

func writeProfitLossCSV(w http.ResponseWriter, report ledger.ProfitLossReport) {
	cw := csvStart(w, "profit_loss_report")
	cw.Write([]string{"Item", "Amount"})
	cw.Write([]string{"Total Revenue", report.Revenue.String()})
	cw.Write([]string{"COGS", report.COGS.String()})
	cw.Write([]string{"Gross Profit", report.GrossProfit.String()})
	cw.Write([]string{"Total Expenses", report.TotalExpenses.String()})
	cw.Write([]string{"Net Profit / Loss", report.NetProfit.String()})
	cw.Flush()
}
