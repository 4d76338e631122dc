package models

import "time"

// CompanyProfile holds the issuer (supplier) details printed on invoices.
// A single row with ID 1 is kept for the whole system.
type CompanyProfile struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:200;not null;default:'Firma Mea SRL'"`
	CUI            string `gorm:"size:50;default:'RO12345678'"`
	RegCom         string `gorm:"size:50;default:'J00/0000/2020'"`
	Address        string `gorm:"size:300;default:'Adresa firmei'"`
	Phone          string `gorm:"size:50"`
	Email          string `gorm:"size:100"`
	IBAN           string `gorm:"size:64"`
	Bank           string `gorm:"size:100"`
	CapitalSocial  string `gorm:"size:50"`
	VATPayer       bool   `gorm:"not null"`
	InvoiceSeries  string `gorm:"size:20;default:'AA'"`
	InvoiceStartNo int    `gorm:"default:1"`
	FooterNotes    string `gorm:"size:400"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CompanyProfileID is the fixed primary key of the singleton row.
const CompanyProfileID = 1
