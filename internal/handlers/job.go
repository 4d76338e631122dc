package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/money"
	"github.com/cpuescu-ui/pontaje-app/internal/services"
	"github.com/cpuescu-ui/pontaje-app/internal/validation"
)

type JobHandler struct {
	DB     *gorm.DB
	Totals *services.JobTotalsService
}

func NewJobHandler(db *gorm.DB, totals *services.JobTotalsService) *JobHandler {
	return &JobHandler{DB: db, Totals: totals}
}

// jobRow pairs a job with its computed totals for list pages.
type jobRow struct {
	Job    models.Job
	Totals services.Totals
}

// List: GET /jobs — add form plus jobs table with receivables.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.DB.Order("name asc").Find(&clients).Error; err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	var jobs []models.Job
	if err := h.DB.Preload("Client").Order("id desc").Find(&jobs).Error; err != nil {
		http.Error(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	rows := make([]jobRow, 0, len(jobs))
	for i := range jobs {
		t, err := h.Totals.ForJob(&jobs[i])
		if err != nil {
			http.Error(w, "failed to compute totals", http.StatusInternalServerError)
			return
		}
		rows = append(rows, jobRow{Job: jobs[i], Totals: t})
	}
	renderPage(w, r, "jobs.html", map[string]any{
		"Title":   "Pontaje & Lucrări — Lucrări",
		"Clients": clients,
		"Rows":    rows,
	})
}

// Create: POST /jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	clientID, ok := queryID(r, "client_id")
	if !ok {
		flashTo(w, r, "Alegeți un client.", "/jobs")
		return
	}
	var client models.Client
	if err := h.DB.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			flashTo(w, r, "Client inexistent.", "/jobs")
			return
		}
		http.Error(w, "failed to load client", http.StatusInternalServerError)
		return
	}
	j := models.Job{
		ClientID:   clientID,
		Title:      strings.TrimSpace(r.FormValue("title")),
		HourlyRate: money.Parse(r.FormValue("hourly_rate")),
		VATRate:    money.Parse(r.FormValue("vat_rate")),
		Currency:   strings.TrimSpace(r.FormValue("currency")),
	}
	if j.Currency == "" {
		j.Currency = "RON"
	}
	v := validation.Violations{}
	validation.Required("title", j.Title, v)
	validation.NonNegative("hourly_rate", j.HourlyRate, v)
	validation.NonNegative("vat_rate", j.VATRate, v)
	if !v.Empty() {
		flashTo(w, r, "Date lucrare invalide: "+v.First(), "/jobs")
		return
	}
	if err := h.DB.Create(&j).Error; err != nil {
		flashTo(w, r, "Lucrarea nu a putut fi salvată.", "/jobs")
		return
	}
	flashTo(w, r, "Lucrare adăugată.", "/jobs")
}

// Detail: GET /jobs/view?id=... — totals cards, timesheet/expense/payment
// tables, invoice generation form and the job's invoices.
func (h *JobHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var job models.Job
	if err := h.DB.Preload("Client").First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load job", http.StatusInternalServerError)
		return
	}
	var (
		timesheets []models.Timesheet
		expenses   []models.Expense
		payments   []models.Payment
		invoices   []models.Invoice
	)
	if err := h.DB.Where("job_id = ?", id).Order("work_date asc, id asc").Find(&timesheets).Error; err != nil {
		http.Error(w, "failed to load timesheets", http.StatusInternalServerError)
		return
	}
	if err := h.DB.Where("job_id = ?", id).Order("exp_date asc, id asc").Find(&expenses).Error; err != nil {
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}
	if err := h.DB.Where("job_id = ?", id).Order("pay_date asc, id asc").Find(&payments).Error; err != nil {
		http.Error(w, "failed to load payments", http.StatusInternalServerError)
		return
	}
	if err := h.DB.Where("job_id = ?", id).Order("id desc").Find(&invoices).Error; err != nil {
		http.Error(w, "failed to load invoices", http.StatusInternalServerError)
		return
	}
	totals := services.ComputeJobTotals(&job, timesheets, expenses, payments)
	renderPage(w, r, "job_detail.html", map[string]any{
		"Title":      fmt.Sprintf("Pontaje & Lucrări — %s", job.Title),
		"Job":        job,
		"Timesheets": timesheets,
		"Expenses":   expenses,
		"Payments":   payments,
		"Invoices":   invoices,
		"Totals":     totals,
		"Today":      time.Now().Format("2006-01-02"),
	})
}

// ToggleStatus: POST /jobs/toggle?id=... — flips OPEN/CLOSED, the only
// in-place update a job ever gets.
func (h *JobHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var job models.Job
	if err := h.DB.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load job", http.StatusInternalServerError)
		return
	}
	job.ToggleStatus()
	if err := h.DB.Model(&job).Update("status", job.Status).Error; err != nil {
		flashTo(w, r, "Statusul nu a putut fi schimbat.", fmt.Sprintf("/jobs/view?id=%d", id))
		return
	}
	flashTo(w, r, "Status actualizat: "+string(job.Status), fmt.Sprintf("/jobs/view?id=%d", id))
}

// Delete: POST /jobs/delete?id=... — removes the job with all of its
// timesheets, expenses, payments and invoices in one transaction. sqlite does
// not enforce the FK cascades, so the children go explicitly.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		return deleteJobTree(tx, id)
	})
	if err != nil {
		flashTo(w, r, "Lucrarea nu a putut fi ștearsă.", "/jobs")
		return
	}
	flashTo(w, r, "Lucrare ștearsă.", "/jobs")
}

// deleteJobTree deletes a job and everything hanging off it.
func deleteJobTree(tx *gorm.DB, jobID uint) error {
	var invoiceIDs []uint
	if err := tx.Model(&models.Invoice{}).Where("job_id = ?", jobID).Pluck("id", &invoiceIDs).Error; err != nil {
		return err
	}
	if len(invoiceIDs) > 0 {
		if err := tx.Where("invoice_id IN ?", invoiceIDs).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
	}
	for _, m := range []any{&models.Invoice{}, &models.Timesheet{}, &models.Expense{}, &models.Payment{}} {
		if err := tx.Where("job_id = ?", jobID).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.Job{}, jobID).Error
}
