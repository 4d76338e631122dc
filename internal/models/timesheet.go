package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timesheet is one day-of-work entry on a job. RateOverride, when set,
// replaces the job's hourly rate for this entry only.
type Timesheet struct {
	ID           uint             `gorm:"primaryKey"`
	JobID        uint             `gorm:"not null;index"`
	WorkDate     string           `gorm:"size:20;not null"`
	Worker       string           `gorm:"size:100"`
	Task         string           `gorm:"size:200"`
	Hours        decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	RateOverride *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt    time.Time
}

// EffectiveRate returns the override when present, else the job rate.
func (t *Timesheet) EffectiveRate(jobRate decimal.Decimal) decimal.Decimal {
	if t.RateOverride != nil {
		return *t.RateOverride
	}
	return jobRate
}
