package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"
)

// Job is a unit of billable work for one client. HourlyRate and VATRate are
// fixed per job: historical timesheets use the job's current rate unless a
// per-entry override is set.
type Job struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    uint   `gorm:"not null;index"`
	Client      Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Title       string `gorm:"size:200;not null"`
	Description string
	StartDate   string          `gorm:"size:20"`
	DueDate     string          `gorm:"size:20"`
	Status      JobStatus       `gorm:"size:20;not null;default:'OPEN'"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VATRate     decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0.19"` // fraction, e.g. 0.19
	Currency    string          `gorm:"size:10;not null;default:'RON'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (j *Job) IsOpen() bool { return j.Status == JobStatusOpen }

// ToggleStatus flips OPEN to CLOSED and back.
func (j *Job) ToggleStatus() {
	if j.Status == JobStatusOpen {
		j.Status = JobStatusClosed
	} else {
		j.Status = JobStatusOpen
	}
}
