package dto

import "github.com/shopspring/decimal"

type ResolveVarianceRequest struct {
	Notes string `json:"notes" validate:"required,min=5"`
}

type VarianceLogResponse struct {
	ID             string          `json:"id"`
	SettlementID   string          `json:"settlement_id"`
	StoreID        int             `json:"store_id"`
	BirdType       string          `json:"bird_type"`
	InventoryState string          `json:"inventory_state"`
	ExpectedQty    decimal.Decimal `json:"expected_qty"`
	DeclaredQty    decimal.Decimal `json:"declared_qty"`
	VarianceQty    decimal.Decimal `json:"variance_qty"`
	VarianceType   string          `json:"variance_type"`
	Status         string          `json:"status"`
	ResolutionNotes *string        `json:"resolution_notes,omitempty"`
	ResolvedAt     *string         `json:"resolved_at,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type VarianceListResponse struct {
	Data  []VarianceLogResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
