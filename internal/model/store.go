package model

import "time"

// Store is a retail location. ReceiptSeq backs the per-store sequential
// receipt numbers; it is only ever advanced with an atomic UPDATE..RETURNING.
type Store struct {
	ID         int    `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Timezone   string `gorm:"not null;default:'Asia/Kolkata'"`
	Status     string `gorm:"type:varchar(20);not null;default:'ACTIVE'"` // ACTIVE | MAINTENANCE
	ReceiptSeq int64  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
