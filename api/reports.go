/*
reports.go - Report and export handlers

PURPOSE:
  Serves the aggregator outputs: profit & loss, dues (with per-contact
  drill-down), account ledger, flattened sales/purchase/expense rows,
  partner ledger, and the dashboard summary. Row-based reports accept
  ?format=csv for download.

QUERY PARAMETERS:
  start, end   ISO dates (2006-01-02); default is the last 30 days
  sort, dir    column key and "asc"/"desc"; defaults per report
  format       "csv" for a download instead of JSON
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warp/ledger-engine/ledger"
)

// parseRange reads start/end query params, defaulting to the last 30 days
// like the report screens.
func parseRange(r *http.Request) (ledger.DateRange, error) {
	rng := ledger.LastDays(30)
	if v := r.URL.Query().Get("start"); v != "" {
		d, err := ledger.ParseDate(v)
		if err != nil {
			return ledger.DateRange{}, err
		}
		rng.Start = d
	}
	if v := r.URL.Query().Get("end"); v != "" {
		d, err := ledger.ParseDate(v)
		if err != nil {
			return ledger.DateRange{}, err
		}
		rng.End = d
	}
	return rng, nil
}

// parseSort reads sort/dir query params. A sort key without a direction is
// ascending, matching the first click on a report column.
func parseSort(r *http.Request) ledger.SortSpec {
	return ledger.SortSpec{
		Key:        r.URL.Query().Get("sort"),
		Descending: r.URL.Query().Get("dir") == "desc",
	}
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

// reportInput bundles the common session/range/sort resolution.
func (h *Handler) reportInput(w http.ResponseWriter, r *http.Request) (ledger.Snapshot, ledger.DateRange, ledger.SortSpec, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return ledger.Snapshot{}, ledger.DateRange{}, ledger.SortSpec{}, false
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err)
		return ledger.Snapshot{}, ledger.DateRange{}, ledger.SortSpec{}, false
	}
	return s.State(), rng, parseSort(r), true
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

func (h *Handler) ProfitLossReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, _, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	report := ledger.ProfitLoss(snap, rng)
	if wantsCSV(r) {
		writeProfitLossCSV(w, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) DuesReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, spec, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	rows := ledger.DuesReport(snap, rng, spec)
	if wantsCSV(r) {
		writeDuesCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) DueDetail(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := s.State()
	contactID := ledger.ContactID(chi.URLParam(r, "contactID"))
	if _, found := snap.ContactByID(contactID); !found {
		writeError(w, http.StatusNotFound, "contact not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, ledger.DueDetail(snap, contactID))
}

func (h *Handler) AccountLedgerReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, _, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	accountID := ledger.AccountID(r.URL.Query().Get("account"))
	report, err := ledger.AccountLedger(snap, accountID, rng)
	if err != nil {
		writeError(w, errStatus(err), "account ledger", err)
		return
	}
	if wantsCSV(r) {
		writeAccountLedgerCSV(w, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, spec, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	rows := ledger.SalesReport(snap, rng, spec)
	if wantsCSV(r) {
		writeTradeCSV(w, "sales_report", "Customer", rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) PurchasesReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, spec, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	rows := ledger.PurchasesReport(snap, rng, spec)
	if wantsCSV(r) {
		writeTradeCSV(w, "purchases_report", "Supplier", rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ExpensesReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, spec, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	rows := ledger.ExpensesReport(snap, rng, spec)
	if wantsCSV(r) {
		writeExpensesCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) PartnerLedgerReport(w http.ResponseWriter, r *http.Request) {
	snap, rng, _, ok := h.reportInput(w, r)
	if !ok {
		return
	}
	partnerID := ledger.PartnerID(r.URL.Query().Get("partner"))
	if _, found := snap.PartnerByID(partnerID); !found {
		writeError(w, http.StatusNotFound, "partner not found", nil)
		return
	}
	rows := ledger.PartnerLedger(snap, partnerID, rng)
	if wantsCSV(r) {
		writePartnerLedgerCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) DashboardReport(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ledger.Dashboard(s.State()))
}
