/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/accounts/*            Account management
  /api/partners/*            Partner management (no delete)
  /api/products/*            Product catalog
  /api/contacts/*            Customers and suppliers
  /api/expense-categories/*  Expense categories
  /api/sales/*               Sales records
  /api/purchases/*           Purchase records
  /api/expenses/*            Expense records
  /api/investments/*         Partner investments (add only)
  /api/transfers/*           Account-to-account transfers
  /api/cash-flows/*          Deposits and withdrawals
  /api/reports/*             Derived reports (?format=csv on row reports)
  /api/data                  DELETE resets the caller's books

SECURITY NOTE:
  Identity comes from the X-User-ID header; there is no auth middleware.
  The header is trusted as-is, suitable behind a gateway that sets it.

SEE ALSO:
  - handlers.go: entity and transaction handlers
  - reports.go: report and export handlers
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. allowedOrigins
// feeds the CORS policy; an empty list allows localhost dev origins only.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", identityHeader},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.ListPartners)
			r.Post("/", h.CreatePartner)
			r.Put("/{id}", h.UpdatePartner)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Post("/", h.CreateContact)
			r.Put("/{id}", h.UpdateContact)
			r.Delete("/{id}", h.DeleteContact)
		})

		r.Route("/expense-categories", func(r chi.Router) {
			r.Get("/", h.ListExpenseCategories)
			r.Post("/", h.CreateExpenseCategory)
			r.Put("/{id}", h.UpdateExpenseCategory)
			r.Delete("/{id}", h.DeleteExpenseCategory)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.CreateSale)
			r.Put("/{id}", h.UpdateSale)
			r.Delete("/{id}", h.DeleteSale)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", h.ListPurchases)
			r.Post("/", h.CreatePurchase)
			r.Put("/{id}", h.UpdatePurchase)
			r.Delete("/{id}", h.DeletePurchase)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/investments", func(r chi.Router) {
			r.Get("/", h.ListInvestments)
			r.Post("/", h.CreateInvestment)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Get("/", h.ListTransfers)
			r.Post("/", h.CreateTransfer)
			r.Put("/{id}", h.UpdateTransfer)
			r.Delete("/{id}", h.DeleteTransfer)
		})

		r.Route("/cash-flows", func(r chi.Router) {
			r.Get("/", h.ListCashFlows)
			r.Post("/", h.CreateCashFlow)
			r.Put("/{id}", h.UpdateCashFlow)
			r.Delete("/{id}", h.DeleteCashFlow)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/profit-loss", h.ProfitLossReport)
			r.Get("/dues", h.DuesReport)
			r.Get("/dues/{contactID}", h.DueDetail)
			r.Get("/account-ledger", h.AccountLedgerReport)
			r.Get("/sales", h.SalesReport)
			r.Get("/purchases", h.PurchasesReport)
			r.Get("/expenses", h.ExpensesReport)
			r.Get("/partner-ledger", h.PartnerLedgerReport)
			r.Get("/dashboard", h.DashboardReport)
		})

		r.Delete("/data", h.ClearData)
	})

	return r
}
