package dto

import "github.com/shopspring/decimal"

// StockMatrixResponse is the full partition grid for one store.
type StockMatrixResponse struct {
	StoreID int                                   `json:"store_id"`
	AsOf    string                                `json:"as_of"`
	Stock   map[string]map[string]decimal.Decimal `json:"stock"`
}

// MovementRow decomposes one day of one partition by movement category.
type MovementRow struct {
	BirdType       string          `json:"bird_type"`
	InventoryState string          `json:"inventory_state"`
	Opening        decimal.Decimal `json:"opening"`
	Purchases      decimal.Decimal `json:"purchases"`
	ProcessingIn   decimal.Decimal `json:"processing_in"`
	ProcessingOut  decimal.Decimal `json:"processing_out"`
	Wastage        decimal.Decimal `json:"wastage"`
	Sales          decimal.Decimal `json:"sales"`
	Adjustments    decimal.Decimal `json:"adjustments"` // manual + variance + transfer
	Closing        decimal.Decimal `json:"closing"`
}

type MovementResponse struct {
	StoreID int           `json:"store_id"`
	Date    string        `json:"date"`
	Rows    []MovementRow `json:"rows"`
}

// CreateAdjustmentRequest posts a MANUAL_ADJUSTMENT entry. Signed delta;
// a note is mandatory because these bypass the normal recorders.
type CreateAdjustmentRequest struct {
	StoreID        int             `json:"store_id"        validate:"required,min=1"`
	BirdType       string          `json:"bird_type"       validate:"required,oneof=BROILER PARENT_CULL"`
	InventoryState string          `json:"inventory_state" validate:"required,oneof=LIVE SKIN SKINLESS"`
	QuantityDelta  decimal.Decimal `json:"quantity_delta"  validate:"required"`
	BirdCountDelta int             `json:"bird_count_delta"`
	Notes          string          `json:"notes"           validate:"required,min=5"`
}

type LedgerEntryResponse struct {
	ID             string          `json:"id"`
	StoreID        int             `json:"store_id"`
	BirdType       string          `json:"bird_type"`
	InventoryState string          `json:"inventory_state"`
	QuantityDelta  decimal.Decimal `json:"quantity_delta"`
	BirdCountChange int            `json:"bird_count_change"`
	ReasonCode     string          `json:"reason_code"`
	ReferenceType  *string         `json:"reference_type,omitempty"`
	ReferenceID    *string         `json:"reference_id,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
