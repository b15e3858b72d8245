package dto

// ─── List filters (bound from query strings) ────────────────────────────────

type LedgerFilter struct {
	StoreID        int    `form:"store_id" validate:"required,min=1"`
	BirdType       string `form:"bird_type" validate:"omitempty,oneof=BROILER PARENT_CULL"`
	InventoryState string `form:"inventory_state" validate:"omitempty,oneof=LIVE SKIN SKINLESS"`
	ReasonCode     string `form:"reason_code"`
	From           string `form:"from"` // RFC3339 or YYYY-MM-DD
	To             string `form:"to"`
	Page           int    `form:"page,default=1"   validate:"min=1"`
	Limit          int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PurchaseFilter struct {
	StoreID int    `form:"store_id" validate:"required,min=1"`
	Status  string `form:"status" validate:"omitempty,oneof=DRAFT COMMITTED CANCELLED"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProcessingFilter struct {
	StoreID  int    `form:"store_id" validate:"required,min=1"`
	BirdType string `form:"bird_type" validate:"omitempty,oneof=BROILER PARENT_CULL"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleFilter struct {
	StoreID       int    `form:"store_id" validate:"required,min=1"`
	PaymentMethod string `form:"payment_method" validate:"omitempty,oneof=CASH UPI CARD BANK"`
	Date          string `form:"date"` // YYYY-MM-DD
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SettlementFilter struct {
	StoreID int    `form:"store_id" validate:"required,min=1"`
	Status  string `form:"status" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED LOCKED"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VarianceFilter struct {
	StoreID      int    `form:"store_id" validate:"required,min=1"`
	Status       string `form:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED DEDUCTED"`
	VarianceType string `form:"variance_type" validate:"omitempty,oneof=POSITIVE NEGATIVE"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}
