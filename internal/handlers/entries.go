package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/money"
	"github.com/cpuescu-ui/pontaje-app/internal/validation"
)

// EntryHandler covers the per-job sub-records: timesheets, expenses and
// payments. Each is created and deleted by direct action, never edited.
type EntryHandler struct{ DB *gorm.DB }

func NewEntryHandler(db *gorm.DB) *EntryHandler { return &EntryHandler{DB: db} }

func (h *EntryHandler) jobExists(jobID uint) (bool, error) {
	var count int64
	err := h.DB.Model(&models.Job{}).Where("id = ?", jobID).Limit(1).Count(&count).Error
	return count > 0, err
}

func jobURL(jobID uint) string { return fmt.Sprintf("/jobs/view?id=%d", jobID) }

// CreateTimesheet: POST /timesheets
func (h *EntryHandler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	jobID, ok := queryID(r, "job_id")
	if !ok {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if exists, err := h.jobExists(jobID); err != nil || !exists {
		http.NotFound(w, r)
		return
	}
	ts := models.Timesheet{
		JobID:    jobID,
		WorkDate: strings.TrimSpace(r.FormValue("work_date")),
		Worker:   strings.TrimSpace(r.FormValue("worker")),
		Task:     strings.TrimSpace(r.FormValue("task")),
		Hours:    money.Parse(r.FormValue("hours")),
	}
	if raw := strings.TrimSpace(r.FormValue("rate_override")); raw != "" {
		rate := money.Parse(raw)
		ts.RateOverride = &rate
	}
	v := validation.Violations{}
	validation.Required("work_date", ts.WorkDate, v)
	validation.Positive("hours", ts.Hours, v)
	if ts.RateOverride != nil {
		validation.NonNegative("rate_override", *ts.RateOverride, v)
	}
	if !v.Empty() {
		flashTo(w, r, "Pontaj invalid: "+v.First(), jobURL(jobID))
		return
	}
	if err := h.DB.Create(&ts).Error; err != nil {
		flashTo(w, r, "Pontajul nu a putut fi salvat.", jobURL(jobID))
		return
	}
	flashTo(w, r, "Pontaj adăugat.", jobURL(jobID))
}

// DeleteTimesheet: POST /timesheets/delete?id=...
func (h *EntryHandler) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	h.deleteEntry(w, r, &models.Timesheet{}, "Pontaj șters.")
}

// CreateExpense: POST /expenses
func (h *EntryHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	jobID, ok := queryID(r, "job_id")
	if !ok {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if exists, err := h.jobExists(jobID); err != nil || !exists {
		http.NotFound(w, r)
		return
	}
	e := models.Expense{
		JobID:         jobID,
		ExpDate:       strings.TrimSpace(r.FormValue("exp_date")),
		Category:      strings.TrimSpace(r.FormValue("category")),
		Description:   strings.TrimSpace(r.FormValue("description")),
		Qty:           money.Parse(r.FormValue("qty")),
		Unit:          strings.TrimSpace(r.FormValue("unit")),
		UnitCost:      money.Parse(r.FormValue("unit_cost")),
		MarkupPercent: money.Parse(r.FormValue("markup_percent")),
		Billable:      r.FormValue("billable") != "0",
	}
	if e.Unit == "" {
		e.Unit = "buc"
	}
	v := validation.Violations{}
	validation.Required("exp_date", e.ExpDate, v)
	validation.Required("description", e.Description, v)
	validation.Positive("qty", e.Qty, v)
	validation.NonNegative("unit_cost", e.UnitCost, v)
	if !v.Empty() {
		flashTo(w, r, "Cheltuială invalidă: "+v.First(), jobURL(jobID))
		return
	}
	if err := h.DB.Create(&e).Error; err != nil {
		flashTo(w, r, "Cheltuiala nu a putut fi salvată.", jobURL(jobID))
		return
	}
	flashTo(w, r, "Cheltuială adăugată.", jobURL(jobID))
}

// DeleteExpense: POST /expenses/delete?id=...
func (h *EntryHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	h.deleteEntry(w, r, &models.Expense{}, "Cheltuială ștearsă.")
}

// CreatePayment: POST /payments
func (h *EntryHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	jobID, ok := queryID(r, "job_id")
	if !ok {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}
	if exists, err := h.jobExists(jobID); err != nil || !exists {
		http.NotFound(w, r)
		return
	}
	p := models.Payment{
		JobID:   jobID,
		PayDate: strings.TrimSpace(r.FormValue("pay_date")),
		Amount:  money.Parse(r.FormValue("amount")),
		Method:  strings.TrimSpace(r.FormValue("method")),
		Notes:   strings.TrimSpace(r.FormValue("notes")),
	}
	v := validation.Violations{}
	validation.Required("pay_date", p.PayDate, v)
	validation.Positive("amount", p.Amount, v)
	if !v.Empty() {
		flashTo(w, r, "Încasare invalidă: "+v.First(), jobURL(jobID))
		return
	}
	if err := h.DB.Create(&p).Error; err != nil {
		flashTo(w, r, "Încasarea nu a putut fi salvată.", jobURL(jobID))
		return
	}
	flashTo(w, r, "Încasare adăugată.", jobURL(jobID))
}

// DeletePayment: POST /payments/delete?id=...
func (h *EntryHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	h.deleteEntry(w, r, &models.Payment{}, "Încasare ștearsă.")
}

// deleteEntry removes one record and bounces back to its job page.
func (h *EntryHandler) deleteEntry(w http.ResponseWriter, r *http.Request, model any, doneMsg string) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	// Look up the job id before deleting so we know where to redirect.
	var jobID uint
	tx := h.DB.Model(model).Select("job_id").Where("id = ?", id).Scan(&jobID)
	if tx.Error != nil || errors.Is(tx.Error, gorm.ErrRecordNotFound) || jobID == 0 {
		http.NotFound(w, r)
		return
	}
	if err := h.DB.Where("id = ?", id).Delete(model).Error; err != nil {
		flashTo(w, r, "Înregistrarea nu a putut fi ștearsă.", jobURL(jobID))
		return
	}
	flashTo(w, r, doneMsg, jobURL(jobID))
}
