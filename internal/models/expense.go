package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a cost incurred on a job. Billable expenses are passed through
// to the client with a percentage markup.
type Expense struct {
	ID            uint            `gorm:"primaryKey"`
	JobID         uint            `gorm:"not null;index"`
	ExpDate       string          `gorm:"size:20;not null"`
	Category      string          `gorm:"size:50"`
	Description   string          `gorm:"size:250;not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:1"`
	Unit          string          `gorm:"size:20;not null;default:'buc'"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MarkupPercent decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	// No default tag: gorm drops zero-valued fields that carry one on
	// Create, which would flip an explicit false back to the column default.
	Billable      bool            `gorm:"not null"`
	CreatedAt     time.Time
}

// BillablePrice is the per-unit price charged to the client: cost plus markup.
func (e *Expense) BillablePrice() decimal.Decimal {
	return e.UnitCost.Mul(decimal.NewFromInt(1).Add(e.MarkupPercent.Div(decimal.NewFromInt(100))))
}
