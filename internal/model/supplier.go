package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier of live birds. Purchases require an ACTIVE supplier.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	Address   *string
	Status    string `gorm:"type:varchar(20);not null;default:'ACTIVE'"` // ACTIVE | INACTIVE
	CreatedAt time.Time
	UpdatedAt time.Time
}
