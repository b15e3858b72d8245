package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GenerateGradesRequest struct {
	StoreID int `json:"store_id" validate:"required,min=1"`
	Year    int `json:"year"     validate:"required,min=2020,max=2100"`
	Month   int `json:"month"    validate:"required,min=1,max=12"`
}

type LockGradesRequest struct {
	StoreID int `json:"store_id" validate:"required,min=1"`
	Year    int `json:"year"     validate:"required,min=2020,max=2100"`
	Month   int `json:"month"    validate:"required,min=1,max=12"`
}

type UpdateGradingConfigRequest struct {
	Key     string          `json:"key"   validate:"required"`
	Value   decimal.Decimal `json:"value" validate:"required"`
	StoreID *int            `json:"store_id"` // nil = global default
}

type UpdateReasonCodeRequest struct {
	PointsValue decimal.Decimal `json:"points_value" validate:"required"`
}

type AwardPointsRequest struct {
	UserID        string          `json:"user_id"        validate:"required,uuid"`
	StoreID       int             `json:"store_id"       validate:"required,min=1"`
	Points        decimal.Decimal `json:"points"         validate:"required"`
	ReasonCode    string          `json:"reason_code"    validate:"required"`
	Notes         string          `json:"notes"          validate:"required,min=5"`
	EffectiveDate string          `json:"effective_date" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PerformanceResponse struct {
	UserID             string          `json:"user_id"`
	StoreID            int             `json:"store_id"`
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	TotalPoints        decimal.Decimal `json:"total_points"`
	WeightHandled      decimal.Decimal `json:"weight_handled"`
	NormalizedScore    decimal.Decimal `json:"normalized_score"`
	Grade              string          `json:"grade"`
	BonusAmount        decimal.Decimal `json:"bonus_amount"`
	PenaltyAmount      decimal.Decimal `json:"penalty_amount"`
	NetIncentive       decimal.Decimal `json:"net_incentive"`
	PositiveVarianceKg decimal.Decimal `json:"positive_variance_kg"`
	NegativeVarianceKg decimal.Decimal `json:"negative_variance_kg"`
	ZeroVarianceDays   int             `json:"zero_variance_days"`
	IsLocked           bool            `json:"is_locked"`
}

type GenerateGradesResponse struct {
	Generated int                   `json:"generated"`
	Skipped   int                   `json:"skipped_locked"`
	Rows      []PerformanceResponse `json:"rows"`
}

type PointEntryResponse struct {
	ID            string          `json:"id"`
	Points        decimal.Decimal `json:"points"`
	ReasonCode    string          `json:"reason_code"`
	Notes         *string         `json:"notes,omitempty"`
	EffectiveDate string          `json:"effective_date"`
	CreatedAt     string          `json:"created_at"`
}

type GradingConfigResponse struct {
	StoreID *int            `json:"store_id"`
	Key     string          `json:"key"`
	Value   decimal.Decimal `json:"value"`
}

type ReasonCodeResponse struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Direction      string          `json:"direction"`
	AffectsStock   bool            `json:"affects_stock"`
	PointsValue    decimal.Decimal `json:"points_value"`
	PointsPerKg    bool            `json:"points_per_kg"`
	IsConfigurable bool            `json:"is_configurable"`
}
