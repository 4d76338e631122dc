package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received against a job.
type Payment struct {
	ID        uint            `gorm:"primaryKey"`
	JobID     uint            `gorm:"not null;index"`
	PayDate   string          `gorm:"size:20;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Method    string          `gorm:"size:50"`
	Notes     string          `gorm:"size:200"`
	CreatedAt time.Time
}
