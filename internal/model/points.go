package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffPointEntry is one immutable point event. Same append-only discipline
// as the inventory ledger: a trigger rejects UPDATE/DELETE, corrections are
// compensating entries.
type StaffPointEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_points_user,priority:1"`
	StoreID       int             `gorm:"not null;index"`
	Points        decimal.Decimal `gorm:"type:decimal(10,2);not null"` // signed
	ReasonCode    string          `gorm:"type:varchar(40);not null"`
	ReferenceType *string         `gorm:"type:varchar(20)"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid"`
	Notes         *string
	EffectiveDate time.Time `gorm:"type:date;not null;index:idx_points_user,priority:2"`
	CreatedAt     time.Time
}

func (StaffPointEntry) TableName() string { return "staff_point_entries" }
