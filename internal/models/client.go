package models

import "time"

// Client entity (the buyer on invoices).
type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	CUI       string `gorm:"size:50"`
	RegCom    string `gorm:"size:50"`
	Address   string `gorm:"size:300"`
	Contact   string `gorm:"size:100"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
