package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	SKUID      string          `json:"sku_id"       validate:"required,uuid"`
	Weight     decimal.Decimal `json:"weight"       validate:"required,gt=0"`
	PricePerKg decimal.Decimal `json:"price_per_kg" validate:"required,gt=0"`
}

type CreateSaleRequest struct {
	StoreID       int               `json:"store_id"       validate:"required,min=1"`
	SaleType      string            `json:"sale_type"      validate:"omitempty,oneof=POS BULK"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH UPI CARD BANK"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	CustomerName  *string           `json:"customer_name"`
	CustomerPhone *string           `json:"customer_phone"`
	IdempotencyKey string           `json:"idempotency_key" validate:"required,min=8,max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	SKUID      string          `json:"sku_id"`
	SKU        string          `json:"sku,omitempty"`
	Weight     decimal.Decimal `json:"weight"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	StoreID       int                `json:"store_id"`
	ReceiptNumber string             `json:"receipt_number"`
	SaleType      string             `json:"sale_type"`
	PaymentMethod string             `json:"payment_method"`
	Items         []SaleItemResponse `json:"items"`
	TotalWeight   decimal.Decimal    `json:"total_weight"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type DailySalesSummaryResponse struct {
	StoreID   int                        `json:"store_id"`
	Date      string                     `json:"date"`
	ByMethod  map[string]decimal.Decimal `json:"by_method"`
	Total     decimal.Decimal            `json:"total"`
}
