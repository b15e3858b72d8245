package dto

import "github.com/shopspring/decimal"

type CreateProcessingRequest struct {
	StoreID        int             `json:"store_id"        validate:"required,min=1"`
	BirdType       string          `json:"bird_type"       validate:"required,oneof=BROILER PARENT_CULL"`
	OutputState    string          `json:"output_state"    validate:"required,oneof=SKIN SKINLESS"`
	InputWeight    decimal.Decimal `json:"input_weight"    validate:"required,gt=0"`
	BirdCount      int             `json:"bird_count"      validate:"min=0"`
	IdempotencyKey string          `json:"idempotency_key" validate:"required,min=8,max=64"`
	Notes          *string         `json:"notes"`
}

type ProcessingResponse struct {
	ID             string          `json:"id"`
	StoreID        int             `json:"store_id"`
	BirdType       string          `json:"bird_type"`
	OutputState    string          `json:"output_state"`
	InputWeight    decimal.Decimal `json:"input_weight"`
	OutputWeight   decimal.Decimal `json:"output_weight"`
	WastageWeight  decimal.Decimal `json:"wastage_weight"`
	WastagePercent decimal.Decimal `json:"wastage_percent"`
	BirdCount      int             `json:"bird_count"`
	CreatedAt      string          `json:"created_at"`
}

type ProcessingListResponse struct {
	Data  []ProcessingResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// CalculateProcessingRequest previews output/wastage without posting.
type CalculateProcessingRequest struct {
	BirdType    string          `json:"bird_type"    validate:"required,oneof=BROILER PARENT_CULL"`
	OutputState string          `json:"output_state" validate:"required,oneof=SKIN SKINLESS"`
	InputWeight decimal.Decimal `json:"input_weight" validate:"required,gt=0"`
}

type CalculateProcessingResponse struct {
	InputWeight    decimal.Decimal `json:"input_weight"`
	OutputWeight   decimal.Decimal `json:"output_weight"`
	WastageWeight  decimal.Decimal `json:"wastage_weight"`
	WastagePercent decimal.Decimal `json:"wastage_percent"`
}

type CreateWastageConfigRequest struct {
	BirdType      string          `json:"bird_type"      validate:"required,oneof=BROILER PARENT_CULL"`
	TargetState   string          `json:"target_state"   validate:"required,oneof=SKIN SKINLESS"`
	Percentage    decimal.Decimal `json:"percentage"     validate:"required,gte=0,lt=100"`
	EffectiveDate string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
}

type WastageConfigResponse struct {
	ID            string          `json:"id"`
	BirdType      string          `json:"bird_type"`
	TargetState   string          `json:"target_state"`
	Percentage    decimal.Decimal `json:"percentage"`
	EffectiveDate string          `json:"effective_date"`
	IsActive      bool            `json:"is_active"`
}
