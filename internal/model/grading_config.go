package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GradingConfig is a key/value row of the grading parameters. StoreID nil is
// the global default; a store row overrides the global one key at a time.
type GradingConfig struct {
	ID        int             `gorm:"primaryKey;autoIncrement"`
	StoreID   *int            `gorm:"uniqueIndex:uq_grading_key,priority:1"`
	Key       string          `gorm:"type:varchar(40);not null;uniqueIndex:uq_grading_key,priority:2"`
	Value     decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	UpdatedAt time.Time
}

func (GradingConfig) TableName() string { return "grading_config" }

// Grading config keys. Thresholds are normalized-score minimums and must be
// strictly descending A_PLUS > A > B > C > D; anything below D_MIN is E.
const (
	CfgGradeAPlusMin = "GRADE_A_PLUS_MIN"
	CfgGradeAMin     = "GRADE_A_MIN"
	CfgGradeBMin     = "GRADE_B_MIN"
	CfgGradeCMin     = "GRADE_C_MIN"
	CfgGradeDMin     = "GRADE_D_MIN"

	CfgBonusRateAPlus = "BONUS_RATE_A_PLUS"
	CfgBonusRateA     = "BONUS_RATE_A"
	CfgBonusRateB     = "BONUS_RATE_B"

	CfgPenaltyRateC = "PENALTY_RATE_C"
	CfgPenaltyRateD = "PENALTY_RATE_D"
	CfgPenaltyRateE = "PENALTY_RATE_E"

	CfgBonusCapMonthly   = "BONUS_CAP_MONTHLY"
	CfgPenaltyCapMonthly = "PENALTY_CAP_MONTHLY"
)
