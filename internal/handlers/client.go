package handlers

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/validation"
)

type ClientHandler struct{ DB *gorm.DB }

func NewClientHandler(db *gorm.DB) *ClientHandler { return &ClientHandler{DB: db} }

// List: GET /clients — add form plus table of existing clients.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	var clients []models.Client
	if err := h.DB.Order("id desc").Find(&clients).Error; err != nil {
		http.Error(w, "failed to list clients", http.StatusInternalServerError)
		return
	}
	renderPage(w, r, "clients.html", map[string]any{
		"Title":   "Pontaje & Lucrări — Clienți",
		"Clients": clients,
	})
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c := models.Client{
		Name:    strings.TrimSpace(r.FormValue("name")),
		CUI:     strings.TrimSpace(r.FormValue("cui")),
		RegCom:  strings.TrimSpace(r.FormValue("reg_com")),
		Address: strings.TrimSpace(r.FormValue("address")),
		Contact: strings.TrimSpace(r.FormValue("contact")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Email:   strings.TrimSpace(r.FormValue("email")),
	}
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	if !v.Empty() {
		flashTo(w, r, "Denumirea clientului este obligatorie.", "/clients")
		return
	}
	if err := h.DB.Create(&c).Error; err != nil {
		flashTo(w, r, "Clientul nu a putut fi salvat.", "/clients")
		return
	}
	flashTo(w, r, "Client adăugat.", "/clients")
}

// Delete: POST /clients/delete?id=... — removes the client and its jobs with
// all their records.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var jobIDs []uint
		if err := tx.Model(&models.Job{}).Where("client_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		for _, jobID := range jobIDs {
			if err := deleteJobTree(tx, jobID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Client{}, id).Error
	})
	if err != nil {
		flashTo(w, r, "Clientul nu a putut fi șters.", "/clients")
		return
	}
	flashTo(w, r, "Client șters.", "/clients")
}
