/*
handlers.go - HTTP handlers for entities and transactional records

PURPOSE:
  Exposes the bookkeeping engine via REST. Handlers parse HTTP, resolve
  the caller's session, and delegate to the ledger package; every mutation
  goes through Session.Submit and therefore through the mutation engine.

IDENTITY:
  The caller's user ID arrives in the X-User-ID header. How that identity
  is established (auth) is outside this service; requests without the
  header are rejected with 401.

REQUEST FLOW:
  1. Resolve session for X-User-ID (created on first touch)
  2. Decode body / path params
  3. Submit event or run aggregator
  4. Serialize response

ERROR HANDLING:
  400: validation errors, malformed bodies
  401: missing identity header
  404: unknown record or account
  500: persistence or internal failures

SEE ALSO:
  - reports.go: report and export handlers
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/ledger-engine/ledger"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Sessions *SessionManager
}

func NewHandler(sessions *SessionManager) *Handler {
	return &Handler{Sessions: sessions}
}

const identityHeader = "X-User-ID"

// session resolves the caller's session from the identity header. Writes
// the error response itself when resolution fails.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*ledger.Session, bool) {
	user := ledger.UserID(r.Header.Get(identityHeader))
	if user == "" {
		writeError(w, http.StatusUnauthorized, "missing "+identityHeader+" header", nil)
		return nil, false
	}
	s, err := h.Sessions.Get(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open session", err)
		return nil, false
	}
	return s, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// submit runs the event through the session and maps failures to HTTP
// status codes.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request, s *ledger.Session, e ledger.Event) bool {
	if err := s.Submit(r.Context(), e); err != nil {
		switch {
		case ledger.IsClientError(err):
			writeError(w, http.StatusBadRequest, "rejected", err)
		case ledger.IsNotFound(err):
			writeError(w, http.StatusNotFound, "not found", err)
		default:
			writeError(w, http.StatusInternalServerError, "failed to apply", err)
		}
		return false
	}
	return true
}

func newID() string { return uuid.NewString() }

// =============================================================================
// ACCOUNTS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Accounts)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	account := ledger.Account{ID: ledger.AccountID(newID()), Name: req.Name}
	if !h.submit(w, r, s, ledger.AddAccount{Account: account}) {
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateAccountRequest
	if !decode(w, r, &req) {
		return
	}
	id := ledger.AccountID(chi.URLParam(r, "id"))
	if _, found := s.State().AccountByID(id); !found {
		writeError(w, http.StatusNotFound, "account not found", nil)
		return
	}
	if !h.submit(w, r, s, ledger.UpdateAccount{Account: ledger.Account{ID: id, Name: req.Name}}) {
		return
	}
	updated, _ := s.State().AccountByID(id)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := ledger.AccountID(chi.URLParam(r, "id"))
	if !h.submit(w, r, s, ledger.DeleteAccount{ID: id}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// PARTNERS - Add and rename only; partners have no delete operation
// =============================================================================

func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Partners)
}

func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreatePartnerRequest
	if !decode(w, r, &req) {
		return
	}
	partner := ledger.Partner{ID: ledger.PartnerID(newID()), Name: req.Name, Contact: req.Contact}
	if !h.submit(w, r, s, ledger.AddPartner{Partner: partner}) {
		return
	}
	writeJSON(w, http.StatusCreated, partner)
}

func (h *Handler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreatePartnerRequest
	if !decode(w, r, &req) {
		return
	}
	id := ledger.PartnerID(chi.URLParam(r, "id"))
	if _, found := s.State().PartnerByID(id); !found {
		writeError(w, http.StatusNotFound, "partner not found", nil)
		return
	}
	partner := ledger.Partner{ID: id, Name: req.Name, Contact: req.Contact}
	if !h.submit(w, r, s, ledger.UpdatePartner{Partner: partner}) {
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

// =============================================================================
// PRODUCTS
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	product := ledger.Product{
		ID: ledger.ProductID(newID()), Name: req.Name, Size: req.Size,
		Color: req.Color, Price: req.Price, Cost: req.Cost, Stock: req.Stock,
	}
	if !h.submit(w, r, s, ledger.AddProduct{Product: product}) {
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	id := ledger.ProductID(chi.URLParam(r, "id"))
	if _, found := s.State().ProductByID(id); !found {
		writeError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	// Stock in the body is ignored on update; it is engine-derived.
	product := ledger.Product{
		ID: id, Name: req.Name, Size: req.Size, Color: req.Color,
		Price: req.Price, Cost: req.Cost,
	}
	if !h.submit(w, r, s, ledger.UpdateProduct{Product: product}) {
		return
	}
	updated, _ := s.State().ProductByID(id)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := ledger.ProductID(chi.URLParam(r, "id"))
	if !h.submit(w, r, s, ledger.DeleteProduct{ID: id}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// CONTACTS
// =============================================================================

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Contacts)
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateContactRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Type != ledger.ContactCustomer && req.Type != ledger.ContactSupplier {
		writeError(w, http.StatusBadRequest, "contact type must be customer or supplier", nil)
		return
	}
	contact := ledger.Contact{ID: ledger.ContactID(newID()), Name: req.Name, Phone: req.Phone, Type: req.Type}
	if !h.submit(w, r, s, ledger.AddContact{Contact: contact}) {
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateContactRequest
	if !decode(w, r, &req) {
		return
	}
	id := ledger.ContactID(chi.URLParam(r, "id"))
	if _, found := s.State().ContactByID(id); !found {
		writeError(w, http.StatusNotFound, "contact not found", nil)
		return
	}
	contact := ledger.Contact{ID: id, Name: req.Name, Phone: req.Phone, Type: req.Type}
	if !h.submit(w, r, s, ledger.UpdateContact{Contact: contact}) {
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := ledger.ContactID(chi.URLParam(r, "id"))
	if !h.submit(w, r, s, ledger.DeleteContact{ID: id}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// EXPENSE CATEGORIES
// =============================================================================

func (h *Handler) ListExpenseCategories(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().ExpenseCategories)
}

func (h *Handler) CreateExpenseCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	category := ledger.ExpenseCategory{ID: ledger.CategoryID(newID()), Name: req.Name}
	if !h.submit(w, r, s, ledger.AddExpenseCategory{Category: category}) {
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) UpdateExpenseCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	id := ledger.CategoryID(chi.URLParam(r, "id"))
	if _, found := s.State().CategoryByID(id); !found {
		writeError(w, http.StatusNotFound, "expense category not found", nil)
		return
	}
	category := ledger.ExpenseCategory{ID: id, Name: req.Name}
	if !h.submit(w, r, s, ledger.UpdateExpenseCategory{Category: category}) {
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteExpenseCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id := ledger.CategoryID(chi.URLParam(r, "id"))
	if !h.submit(w, r, s, ledger.DeleteExpenseCategory{ID: id}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// SALES
// =============================================================================

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Sales)
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var sale ledger.Sale
	if !decode(w, r, &sale) {
		return
	}
	sale.ID = newID()
	if !h.submit(w, r, s, ledger.AddSale{Sale: sale}) {
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *Handler) UpdateSale(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var sale ledger.Sale
	if !decode(w, r, &sale) {
		return
	}
	id := chi.URLParam(r, "id")
	old, found := s.State().SaleByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "sale not found", ledger.ErrRecordNotFound)
		return
	}
	sale.ID = id
	if !h.submit(w, r, s, ledger.UpdateSale{Old: old, New: sale}) {
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	old, found := s.State().SaleByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "sale not found", ledger.ErrRecordNotFound)
		return
	}
	if !h.submit(w, r, s, ledger.DeleteSale{Sale: old}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// PURCHASES
// =============================================================================

func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Purchases)
}

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var purchase ledger.Purchase
	if !decode(w, r, &purchase) {
		return
	}
	purchase.ID = newID()
	if !h.submit(w, r, s, ledger.AddPurchase{Purchase: purchase}) {
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (h *Handler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var purchase ledger.Purchase
	if !decode(w, r, &purchase) {
		return
	}
	id := chi.URLParam(r, "id")
	old, found := s.State().PurchaseByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "purchase not found", ledger.ErrRecordNotFound)
		return
	}
	purchase.ID = id
	if !h.submit(w, r, s, ledger.UpdatePurchase{Old: old, New: purchase}) {
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	old, found := s.State().PurchaseByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "purchase not found", ledger.ErrRecordNotFound)
		return
	}
	if !h.submit(w, r, s, ledger.DeletePurchase{Purchase: old}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// EXPENSES
// =============================================================================

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Expenses)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var expense ledger.Expense
	if !decode(w, r, &expense) {
		return
	}
	expense.ID = newID()
	if !h.submit(w, r, s, ledger.AddExpense{Expense: expense}) {
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var expense ledger.Expense
	if !decode(w, r, &expense) {
		return
	}
	id := chi.URLParam(r, "id")
	old, found := s.State().ExpenseByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "expense not found", ledger.ErrRecordNotFound)
		return
	}
	expense.ID = id
	if !h.submit(w, r, s, ledger.UpdateExpense{Old: old, New: expense}) {
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	old, found := s.State().ExpenseByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "expense not found", ledger.ErrRecordNotFound)
		return
	}
	if !h.submit(w, r, s, ledger.DeleteExpense{Expense: old}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// INVESTMENTS - Add only
// =============================================================================

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().Investments)
}

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var investment ledger.Investment
	if !decode(w, r, &investment) {
		return
	}
	investment.ID = newID()
	if !h.submit(w, r, s, ledger.AddInvestment{Investment: investment}) {
		return
	}
	writeJSON(w, http.StatusCreated, investment)
}

// =============================================================================
// ACCOUNT TRANSFERS
// =============================================================================

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().AccountTransfers)
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var transfer ledger.AccountTransfer
	if !decode(w, r, &transfer) {
		return
	}
	transfer.ID = newID()
	if !h.submit(w, r, s, ledger.AddAccountTransfer{Transfer: transfer}) {
		return
	}
	writeJSON(w, http.StatusCreated, transfer)
}

func (h *Handler) UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var transfer ledger.AccountTransfer
	if !decode(w, r, &transfer) {
		return
	}
	id := chi.URLParam(r, "id")
	old, found := s.State().TransferByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "transfer not found", ledger.ErrRecordNotFound)
		return
	}
	transfer.ID = id
	if !h.submit(w, r, s, ledger.UpdateAccountTransfer{Old: old, New: transfer}) {
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *Handler) DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	old, found := s.State().TransferByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "transfer not found", ledger.ErrRecordNotFound)
		return
	}
	if !h.submit(w, r, s, ledger.DeleteAccountTransfer{Transfer: old}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// CASH FLOWS
// =============================================================================

func (h *Handler) ListCashFlows(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.State().CashFlows)
}

func (h *Handler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var cf ledger.CashFlow
	if !decode(w, r, &cf) {
		return
	}
	if cf.Type != ledger.CashDeposit && cf.Type != ledger.CashWithdrawal {
		writeError(w, http.StatusBadRequest, "cash flow type must be deposit or withdrawal", nil)
		return
	}
	cf.ID = newID()
	if !h.submit(w, r, s, ledger.AddCashFlow{CashFlow: cf}) {
		return
	}
	writeJSON(w, http.StatusCreated, cf)
}

func (h *Handler) UpdateCashFlow(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var cf ledger.CashFlow
	if !decode(w, r, &cf) {
		return
	}
	id := chi.URLParam(r, "id")
	old, found := s.State().CashFlowByID(id)
	if !found {
		writeError(w, http.StatusNotFound, "cash flow not found", ledger.ErrRecordNotFound)
		return
	}
	cf.ID = id
	if !h.submit(w, r, s, ledger.UpdateCashFlow{Old: old, New: cf}) {
		return
	}
	writeJSON(w, http.StatusOK, cf)
}

func (h *Handler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	old, found := s.State().CashFlowByID(chi.URLParam(r, "id"))
	if !found {
		writeError(w, http.StatusNotFound, "cash flow not found", ledger.ErrRecordNotFound)
		return
	}
	if !h.submit(w, r, s, ledger.DeleteCashFlow{CashFlow: old}) {
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// =============================================================================
// DATA RESET
// =============================================================================

// ClearData resets the caller's books to the default snapshot.
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear data", err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "cleared"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// errStatus maps a ledger error to an HTTP status.
func errStatus(err error) int {
	switch {
	case ledger.IsClientError(err):
		return http.StatusBadRequest
	case ledger.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrSessionClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
