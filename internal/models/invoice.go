package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a legal document snapshot. Once generated it is never edited,
// voided or deleted. InvNo is the composed number, e.g. AA-2026-0001, and is
// globally unique; Number is unique only within a series and year.
type Invoice struct {
	ID            uint   `gorm:"primaryKey"`
	JobID         uint   `gorm:"not null;index"`
	Series        string `gorm:"size:20;not null"`
	Number        int    `gorm:"not null"`
	InvNo         string `gorm:"size:50;uniqueIndex;not null"`
	IssueDate     string `gorm:"size:20;not null"`
	DueDate       string `gorm:"size:20"`
	PaymentMethod string `gorm:"size:50;default:'OP'"`
	Place         string `gorm:"size:100"`
	Notes         string `gorm:"size:400"`
	Lines         []InvoiceLine
	CreatedAt     time.Time
}

type InvoiceLineType string

const (
	LineTypeLabor   InvoiceLineType = "LABOR"
	LineTypeExpense InvoiceLineType = "EXPENSE"
)

// InvoiceLine is frozen at generation time. Later edits to the job's
// timesheets or expenses never touch it. Amounts exclude VAT.
type InvoiceLine struct {
	ID          uint            `gorm:"primaryKey"`
	InvoiceID   uint            `gorm:"not null;index"`
	LineType    InvoiceLineType `gorm:"size:20;not null"`
	Description string          `gorm:"size:250;not null"`
	Qty         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:1"`
	Unit        string          `gorm:"size:20;not null;default:'buc'"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}
