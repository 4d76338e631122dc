package server

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/auth"
	"github.com/cpuescu-ui/pontaje-app/internal/handlers"
	"github.com/cpuescu-ui/pontaje-app/internal/httpx"
	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/cpuescu-ui/pontaje-app/internal/services"
	"github.com/cpuescu-ui/pontaje-app/internal/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth verifies against the DB so stale sessions get cleared.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// Navbar username comes from the session, resolved lazily per request.
	view.SetUserResolver(func(r *http.Request) string {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			if uid, ok = auth.ParseSession(r); !ok {
				return ""
			}
		}
		var user models.User
		if err := db.Select("username").First(&user, uid).Error; err != nil {
			return ""
		}
		return user.Username
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	totalsSvc := services.NewJobTotalsService(db)
	invSvc := services.NewInvoiceService(db)

	dash := handlers.NewDashboardHandler(db, totalsSvc)
	ch := handlers.NewClientHandler(db)
	jh := handlers.NewJobHandler(db, totalsSvc)
	eh := handlers.NewEntryHandler(db)
	cph := handlers.NewCompanyHandler(db)
	ih := handlers.NewInvoiceHandler(db, invSvc)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	getPost := func(get, post http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				get(w, r)
			case http.MethodPost:
				post(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		}
	}
	postOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("Allow", "POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
				return
			}
			h(w, r)
		}
	}

	mux.Handle("/clients", protect(getPost(ch.List, ch.Create)))
	mux.Handle("/clients/delete", protect(postOnly(ch.Delete)))

	mux.Handle("/jobs", protect(getPost(jh.List, jh.Create)))
	mux.Handle("/jobs/view", protect(jh.Detail))
	mux.Handle("/jobs/toggle", protect(postOnly(jh.ToggleStatus)))
	mux.Handle("/jobs/delete", protect(postOnly(jh.Delete)))

	mux.Handle("/timesheets", protect(postOnly(eh.CreateTimesheet)))
	mux.Handle("/timesheets/delete", protect(postOnly(eh.DeleteTimesheet)))
	mux.Handle("/expenses", protect(postOnly(eh.CreateExpense)))
	mux.Handle("/expenses/delete", protect(postOnly(eh.DeleteExpense)))
	mux.Handle("/payments", protect(postOnly(eh.CreatePayment)))
	mux.Handle("/payments/delete", protect(postOnly(eh.DeletePayment)))

	mux.Handle("/company", protect(getPost(cph.Show, cph.Save)))

	mux.Handle("/invoices/generate", protect(postOnly(ih.Generate)))
	mux.Handle("/invoices/view", protect(ih.View))

	mux.Handle("/receivables", protect(dash.Receivables))
	mux.Handle("/", protect(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		dash.Index(w, r)
	}))

	return withRecover(mux)
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
