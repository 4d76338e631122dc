package handlers

import (
	"net/http"
	"strconv"

	"github.com/cpuescu-ui/pontaje-app/internal/view"
)

// queryID reads a positive integer id from the named query parameter.
func queryID(r *http.Request, name string) (uint, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		v = r.FormValue(name)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// flashTo queues a flash message and redirects (Post/Redirect/Get).
func flashTo(w http.ResponseWriter, r *http.Request, msg, location string) {
	view.Flash(w, msg)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func renderPage(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
