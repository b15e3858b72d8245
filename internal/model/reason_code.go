package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReasonCode is a row of the closed movement/points vocabulary. Codes with a
// non-empty Direction are valid on the inventory ledger; AffectsStock=false
// marks audit-only entries excluded from balance folds (WASTAGE). PointsValue
// drives staff point events: fixed when PointsPerKg is false, multiplied by
// the affected kg when true. Only IsConfigurable codes accept value edits.
type ReasonCode struct {
	Code         string          `gorm:"type:varchar(40);primaryKey"`
	Description  string          `gorm:"not null"`
	Direction    string          `gorm:"type:varchar(10);not null;default:''"` // CREDIT | DEBIT | BOTH | '' (points-only)
	AffectsStock bool            `gorm:"not null;default:true"`
	PointsValue  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PointsPerKg  bool            `gorm:"not null;default:false"`
	IsConfigurable bool          `gorm:"not null;default:false"`
	UpdatedAt    time.Time
}

func (ReasonCode) TableName() string { return "ledger_reason_codes" }

// Ledger reason codes.
const (
	ReasonPurchaseReceived = "PURCHASE_RECEIVED"
	ReasonProcessingDebit  = "PROCESSING_DEBIT"
	ReasonProcessingCredit = "PROCESSING_CREDIT"
	ReasonWastage          = "WASTAGE"
	ReasonSaleDebit        = "SALE_DEBIT"
	ReasonVariancePositive = "VARIANCE_POSITIVE"
	ReasonVarianceNegative = "VARIANCE_NEGATIVE"
	ReasonManualAdjustment = "MANUAL_ADJUSTMENT"
	ReasonTransferOut      = "TRANSFER_OUT"
	ReasonTransferIn       = "TRANSFER_IN"
)

// Points-only reason codes (no ledger direction).
const (
	ReasonSettlementZeroVariance   = "SETTLEMENT_ZERO_VARIANCE"
	ReasonMissedSettlement         = "MISSED_SETTLEMENT"
	ReasonRepeatedNegativeVariance = "REPEATED_NEGATIVE_VARIANCE"
)
