/*
dto.go - Request/response types for the HTTP API

PURPOSE:
  JSON structures for API communication. Entity and report types from the
  ledger package already carry their canonical JSON names (the same names
  the persisted document uses), so responses serialize them directly; the
  types here cover create requests (the server mints record IDs) and the
  error envelope.

VALIDATION:
  Structural validation (required fields) happens in handlers; business
  validation (positive amounts, distinct transfer endpoints) happens in
  the ledger session before the engine runs.

SEE ALSO:
  - handlers.go: uses these types
  - ledger/types.go: entity JSON layout
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// CREATE REQUESTS - Server assigns the record ID
// =============================================================================

type CreateAccountRequest struct {
	Name string `json:"name"`
}

type CreatePartnerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type CreateProductRequest struct {
	Name  string          `json:"name"`
	Size  string          `json:"size,omitempty"`
	Color string          `json:"color,omitempty"`
	Price decimal.Decimal `json:"price"`
	Cost  decimal.Decimal `json:"cost"`
	Stock int64           `json:"stock"`
}

type CreateContactRequest struct {
	Name  string             `json:"name"`
	Phone string             `json:"phone"`
	Type  ledger.ContactType `json:"type"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// =============================================================================
// RESPONSE ENVELOPES
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
