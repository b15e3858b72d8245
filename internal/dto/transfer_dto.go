package dto

import "github.com/shopspring/decimal"

type CreateTransferRequest struct {
	FromStoreID    int             `json:"from_store_id"   validate:"required,min=1"`
	ToStoreID      int             `json:"to_store_id"     validate:"required,min=1"`
	BirdType       string          `json:"bird_type"       validate:"required,oneof=BROILER PARENT_CULL"`
	InventoryState string          `json:"inventory_state" validate:"required,oneof=LIVE SKIN SKINLESS"`
	Weight         decimal.Decimal `json:"weight"          validate:"required,gt=0"`
	BirdCount      int             `json:"bird_count"      validate:"min=0"`
	Notes          *string         `json:"notes"`
}

type TransferResponse struct {
	ID             string          `json:"id"`
	FromStoreID    int             `json:"from_store_id"`
	ToStoreID      int             `json:"to_store_id"`
	BirdType       string          `json:"bird_type"`
	InventoryState string          `json:"inventory_state"`
	Weight         decimal.Decimal `json:"weight"`
	BirdCount      int             `json:"bird_count"`
	CreatedAt      string          `json:"created_at"`
}
