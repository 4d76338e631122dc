package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/validation"
)

// CompanyHandler edits the company-profile singleton (the invoice issuer).
type CompanyHandler struct{ DB *gorm.DB }

func NewCompanyHandler(db *gorm.DB) *CompanyHandler { return &CompanyHandler{DB: db} }

// Show: GET /company
func (h *CompanyHandler) Show(w http.ResponseWriter, r *http.Request) {
	var cp models.CompanyProfile
	if err := h.DB.First(&cp, models.CompanyProfileID).Error; err != nil {
		http.Error(w, "failed to load company profile", http.StatusInternalServerError)
		return
	}
	renderPage(w, r, "company.html", map[string]any{
		"Title":   "Pontaje & Lucrări — Firmă",
		"Profile": cp,
	})
}

// Save: POST /company — the profile is the one record edited in place.
func (h *CompanyHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var cp models.CompanyProfile
	if err := h.DB.First(&cp, models.CompanyProfileID).Error; err != nil {
		http.Error(w, "failed to load company profile", http.StatusInternalServerError)
		return
	}
	cp.Name = strings.TrimSpace(r.FormValue("name"))
	cp.CUI = strings.TrimSpace(r.FormValue("cui"))
	cp.RegCom = strings.TrimSpace(r.FormValue("reg_com"))
	cp.Address = strings.TrimSpace(r.FormValue("address"))
	cp.Phone = strings.TrimSpace(r.FormValue("phone"))
	cp.Email = strings.TrimSpace(r.FormValue("email"))
	cp.CapitalSocial = strings.TrimSpace(r.FormValue("capital_social"))
	cp.IBAN = strings.TrimSpace(r.FormValue("iban"))
	cp.Bank = strings.TrimSpace(r.FormValue("bank"))
	cp.VATPayer = r.FormValue("vat_payer") == "1"
	cp.FooterNotes = strings.TrimSpace(r.FormValue("footer_notes"))
	if s := strings.TrimSpace(r.FormValue("invoice_series")); s != "" {
		cp.InvoiceSeries = s
	} else {
		cp.InvoiceSeries = "AA"
	}
	if n, err := strconv.Atoi(r.FormValue("invoice_start_no")); err == nil && n > 0 {
		cp.InvoiceStartNo = n
	} else {
		cp.InvoiceStartNo = 1
	}

	v := validation.Violations{}
	validation.Required("name", cp.Name, v)
	if !v.Empty() {
		flashTo(w, r, "Denumirea firmei este obligatorie.", "/company")
		return
	}
	if err := h.DB.Save(&cp).Error; err != nil {
		flashTo(w, r, "Datele firmei nu au putut fi salvate.", "/company")
		return
	}
	flashTo(w, r, "Date firmă salvate.", "/company")
}
