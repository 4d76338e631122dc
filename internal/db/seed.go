package db

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
)

// Seed ensures the default login accounts and the company-profile singleton
// exist. Idempotent; runs at every startup.
func Seed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	return EnsureCompanyProfile(db)
}

func seedUsers(db *gorm.DB) error {
	accounts := []struct {
		userEnv, passEnv, defUser, defPass, role string
	}{
		{"ADMIN_USER", "ADMIN_PASS", "admin", "admin1234", models.RoleAdmin},
		{"USER2_USER", "USER2_PASS", "user", "user1234", models.RoleUser},
	}
	for _, a := range accounts {
		username := envOr(a.userEnv, a.defUser)
		var existing models.User
		err := db.Where("username = ?", username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("seed user lookup: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(envOr(a.passEnv, a.defPass)), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		u := models.User{Username: username, PasswordHash: string(hash), Role: a.role}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", username, err)
		}
	}
	return nil
}

// EnsureCompanyProfile creates the singleton row (id=1) when missing and
// returns nil once it exists.
func EnsureCompanyProfile(db *gorm.DB) error {
	var cp models.CompanyProfile
	err := db.First(&cp, models.CompanyProfileID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load company profile: %w", err)
	}
	cp = models.CompanyProfile{ID: models.CompanyProfileID, Name: "Firma Mea SRL", CUI: "RO12345678", RegCom: "J00/0000/2020", Address: "Adresa firmei", VATPayer: true, InvoiceSeries: "AA", InvoiceStartNo: 1}
	if err := db.Create(&cp).Error; err != nil {
		return fmt.Errorf("create company profile: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
