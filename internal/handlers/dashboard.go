package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/services"
)

// DashboardHandler serves the home page and the receivables overview.
type DashboardHandler struct {
	DB     *gorm.DB
	Totals *services.JobTotalsService
}

func NewDashboardHandler(db *gorm.DB, totals *services.JobTotalsService) *DashboardHandler {
	return &DashboardHandler{DB: db, Totals: totals}
}

// Index: GET / — client count, open jobs, total receivable.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	var clientCount, openJobs int64
	if err := h.DB.Model(&models.Client{}).Count(&clientCount).Error; err != nil {
		http.Error(w, "failed to count clients", http.StatusInternalServerError)
		return
	}
	if err := h.DB.Model(&models.Job{}).Where("status = ?", models.JobStatusOpen).Count(&openJobs).Error; err != nil {
		http.Error(w, "failed to count jobs", http.StatusInternalServerError)
		return
	}
	var jobs []models.Job
	if err := h.DB.Find(&jobs).Error; err != nil {
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	totalReceivable := decimal.Zero
	currency := "RON"
	for i := range jobs {
		t, err := h.Totals.ForJob(&jobs[i])
		if err != nil {
			http.Error(w, "failed to compute totals", http.StatusInternalServerError)
			return
		}
		totalReceivable = totalReceivable.Add(t.Receivable)
		currency = jobs[i].Currency
	}
	renderPage(w, r, "dashboard.html", map[string]any{
		"Title":           "Pontaje & Lucrări — Acasă",
		"ClientCount":     clientCount,
		"OpenJobs":        openJobs,
		"TotalReceivable": totalReceivable,
		"Currency":        currency,
	})
}

// Receivables: GET /receivables — per-job totals, paid and outstanding.
func (h *DashboardHandler) Receivables(w http.ResponseWriter, r *http.Request) {
	var jobs []models.Job
	if err := h.DB.Preload("Client").Order("id desc").Find(&jobs).Error; err != nil {
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	rows := make([]jobRow, 0, len(jobs))
	totalAll := decimal.Zero
	currency := "RON"
	for i := range jobs {
		t, err := h.Totals.ForJob(&jobs[i])
		if err != nil {
			http.Error(w, "failed to compute totals", http.StatusInternalServerError)
			return
		}
		rows = append(rows, jobRow{Job: jobs[i], Totals: t})
		totalAll = totalAll.Add(t.Receivable)
		currency = jobs[i].Currency
	}
	renderPage(w, r, "receivables.html", map[string]any{
		"Title":    "Pontaje & Lucrări — De încasat",
		"Rows":     rows,
		"TotalAll": totalAll,
		"Currency": currency,
	})
}
