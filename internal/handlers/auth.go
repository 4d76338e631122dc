package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/auth"
	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/view"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Already logged in: straight to the dashboard.
		if uid, ok := auth.ParseSession(r); ok && uid != 0 {
			var count int64
			if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err == nil && count > 0 {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			auth.ClearSession(w)
		}
		if err := view.Render(w, r, "login.html", map[string]any{"Title": "Pontaje & Lucrări — Login"}); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		var user models.User
		if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
			view.Flash(w, "Date de login greșite.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			view.Flash(w, "Date de login greșite.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		auth.CreateSession(w, user.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET,POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
