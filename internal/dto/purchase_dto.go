package dto

import "github.com/shopspring/decimal"

type CreatePurchaseRequest struct {
	StoreID     int             `json:"store_id"     validate:"required,min=1"`
	SupplierID  string          `json:"supplier_id"  validate:"required,uuid"`
	BirdType    string          `json:"bird_type"    validate:"required,oneof=BROILER PARENT_CULL"`
	BirdCount   int             `json:"bird_count"   validate:"required,min=1"`
	TotalWeight decimal.Decimal `json:"total_weight" validate:"required,gt=0"`
	PricePerKg  decimal.Decimal `json:"price_per_kg" validate:"required,gt=0"`
	Notes       *string         `json:"notes"`
}

type PurchaseResponse struct {
	ID          string          `json:"id"`
	StoreID     int             `json:"store_id"`
	SupplierID  string          `json:"supplier_id"`
	Supplier    string          `json:"supplier,omitempty"`
	BirdType    string          `json:"bird_type"`
	BirdCount   int             `json:"bird_count"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Notes       *string         `json:"notes,omitempty"`
	CommittedAt *string         `json:"committed_at,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type PurchaseListResponse struct {
	Data  []PurchaseResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
