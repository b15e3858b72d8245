package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSettlementRequest struct {
	StoreID        int    `json:"store_id"        validate:"required,min=1"`
	SettlementDate string `json:"settlement_date" validate:"required,datetime=2006-01-02"`
}

// SubmitSettlementRequest carries the blind declaration. Missing partitions
// default to zero — the submit always compares the full grid.
type SubmitSettlementRequest struct {
	DeclaredStock map[string]map[string]decimal.Decimal `json:"declared_stock" validate:"required"`
	DeclaredCash  decimal.Decimal                       `json:"declared_cash"  validate:"gte=0"`
	DeclaredCard  decimal.Decimal                       `json:"declared_card"  validate:"gte=0"`
	DeclaredBank  decimal.Decimal                       `json:"declared_bank"  validate:"gte=0"`
	Expenses      decimal.Decimal                       `json:"expenses"       validate:"gte=0"`
	Notes         *string                               `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VarianceCellResponse struct {
	Expected decimal.Decimal `json:"expected"`
	Declared decimal.Decimal `json:"declared"`
	Variance decimal.Decimal `json:"variance"`
	Type     string          `json:"type"`
}

type SettlementResponse struct {
	ID             string `json:"id"`
	StoreID        int    `json:"store_id"`
	SettlementDate string `json:"settlement_date"`
	Status         string `json:"status"`

	DeclaredStock map[string]map[string]decimal.Decimal `json:"declared_stock,omitempty"`
	DeclaredCash  decimal.Decimal                       `json:"declared_cash"`
	DeclaredCard  decimal.Decimal                       `json:"declared_card"`
	DeclaredBank  decimal.Decimal                       `json:"declared_bank"`
	Expenses      decimal.Decimal                       `json:"expenses"`

	ExpectedStock      map[string]map[string]decimal.Decimal  `json:"expected_stock,omitempty"`
	ExpectedCash       map[string]decimal.Decimal             `json:"expected_cash,omitempty"`
	CalculatedVariance map[string]map[string]VarianceCellResponse `json:"calculated_variance,omitempty"`
	CashVariance       decimal.Decimal                        `json:"cash_variance"`

	SubmittedAt *string `json:"submitted_at,omitempty"`
	ApprovedAt  *string `json:"approved_at,omitempty"`
	LockedAt    *string `json:"locked_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// SubmitSettlementResponse summarizes what the submit produced.
type SubmitSettlementResponse struct {
	Settlement        SettlementResponse `json:"settlement"`
	VarianceLogsTotal int                `json:"variance_logs_total"`
	PendingPositive   int                `json:"pending_positive"`
	DeductedNegative  int                `json:"deducted_negative"`
	ZeroPartitions    int                `json:"zero_partitions"`
}

type SettlementListResponse struct {
	Data  []SettlementResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
