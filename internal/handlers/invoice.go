package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/money"
	"github.com/cpuescu-ui/pontaje-app/internal/services"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

// Generate: POST /invoices/generate?job_id=... — allocates the next number
// in the series and freezes the job's billable lines, all in one
// transaction.
func (h *InvoiceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	jobID, ok := queryID(r, "job_id")
	if !ok {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	inv, err := h.Svc.Generate(jobID, services.GenerateParams{
		IssueDate:     strings.TrimSpace(r.FormValue("issue_date")),
		DueDate:       strings.TrimSpace(r.FormValue("due_date")),
		PaymentMethod: strings.TrimSpace(r.FormValue("payment_method")),
		Place:         strings.TrimSpace(r.FormValue("place")),
		Notes:         strings.TrimSpace(r.FormValue("notes")),
	})
	if err != nil {
		if errors.Is(err, services.ErrJobNotFound) {
			http.NotFound(w, r)
			return
		}
		flashTo(w, r, "Factura nu a putut fi generată.", fmt.Sprintf("/jobs/view?id=%d", jobID))
		return
	}
	flashTo(w, r, "Factură fiscală generată: "+inv.InvNo, fmt.Sprintf("/invoices/view?id=%d", inv.ID))
}

// View: GET /invoices/view?id=... — the printable document. Amounts come
// from the frozen lines; only the VAT presentation depends on the current
// vat_payer flag.
func (h *InvoiceHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var inv models.Invoice
	if err := h.DB.Preload("Lines").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load invoice", http.StatusInternalServerError)
		return
	}
	var job models.Job
	if err := h.DB.Preload("Client").First(&job, inv.JobID).Error; err != nil {
		http.Error(w, "failed to load job", http.StatusInternalServerError)
		return
	}
	var cp models.CompanyProfile
	if err := h.DB.First(&cp, models.CompanyProfileID).Error; err != nil {
		http.Error(w, "failed to load company profile", http.StatusInternalServerError)
		return
	}

	subtotal := decimal.Zero
	for i := range inv.Lines {
		subtotal = subtotal.Add(inv.Lines[i].LineTotal)
	}
	vatRate := job.VATRate
	if !cp.VATPayer {
		vatRate = decimal.Zero
	}
	vat := subtotal.Mul(vatRate)
	vatLabel := money.Percent(vatRate)
	if !cp.VATPayer {
		vatLabel = "NEPLĂTITOR TVA"
	}

	renderPage(w, r, "invoice.html", map[string]any{
		"Title":    "Factura " + inv.InvNo,
		"Invoice":  inv,
		"Job":      job,
		"Client":   job.Client,
		"Profile":  cp,
		"Subtotal": subtotal,
		"VAT":      vat,
		"Total":    subtotal.Add(vat),
		"VATLabel": vatLabel,
	})
}
