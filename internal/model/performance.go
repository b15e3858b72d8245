package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffMonthlyPerformance is the derived month-end grading row for one staff
// member at one store. Regeneration replaces it freely until IsLocked; a
// locked row is the payroll input and never changes again.
type StaffMonthlyPerformance struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_perf_month,priority:1"`
	StoreID int       `gorm:"not null;uniqueIndex:uq_perf_month,priority:2"`
	Year    int       `gorm:"not null;uniqueIndex:uq_perf_month,priority:3"`
	Month   int       `gorm:"not null;uniqueIndex:uq_perf_month,priority:4"`

	TotalPoints        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WeightHandled      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NormalizedScore    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Grade              string          `gorm:"type:varchar(10);not null"`
	BonusAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PenaltyAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NetIncentive       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PositiveVarianceKg decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	NegativeVarianceKg decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	ZeroVarianceDays   int             `gorm:"not null;default:0"`

	IsLocked    bool `gorm:"not null;default:false"`
	LockedAt    *time.Time
	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (StaffMonthlyPerformance) TableName() string { return "staff_monthly_performance" }
