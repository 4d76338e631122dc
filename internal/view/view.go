// Package view renders page templates over a shared layout and carries the
// one-shot flash message between a form POST and the redirected GET.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/cpuescu-ui/pontaje-app/internal/money"
	"github.com/shopspring/decimal"
)

const flashCookieName = "flash"

var (
	baseDir     string
	baseDirOnce sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// userResolver lets the host app surface the logged-in username in the
	// navbar without coupling this package to the DB.
	userResolver = func(_ *http.Request) string { return "" }
)

// SetUserResolver installs the callback used to show the session's username.
func SetUserResolver(f func(*http.Request) string) {
	if f != nil {
		userResolver = f
	}
}

// SetBaseDir overrides template directory detection (used by tests).
func SetBaseDir(dir string) { baseDir = dir }

// resolveBaseDir finds the templates directory whether the binary runs from
// the repo root or a subdirectory like cmd/server.
func resolveBaseDir() string {
	baseDirOnce.Do(func() {
		if baseDir != "" {
			return
		}
		for _, c := range []string{"templates", "../templates", "../../templates"} {
			if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
				baseDir = filepath.Clean(c)
				return
			}
		}
		baseDir = "templates"
	})
	return baseDir
}

func funcs() template.FuncMap {
	return template.FuncMap{
		// money accepts a value or pointer; nil renders as zero.
		"money": func(v any) string {
			switch d := v.(type) {
			case decimal.Decimal:
				return money.Format(d)
			case *decimal.Decimal:
				if d == nil {
					return money.Format(decimal.Zero)
				}
				return money.Format(*d)
			}
			return money.Format(decimal.Zero)
		},
		"pct":  money.Percent,
		"add1": func(i int) int { return i + 1 },
	}
}

func load(name string) (*template.Template, error) {
	tplCache.RLock()
	t, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	dir := resolveBaseDir()
	t, err := template.New("layout.html").Funcs(funcs()).ParseFiles(
		filepath.Join(dir, "layout.html"),
		filepath.Join(dir, name),
	)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[name] = t
	tplCache.Unlock()
	return t, nil
}

// Flash queues a one-shot notice shown on the next rendered page.
func Flash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: url.QueryEscape(msg), Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// Render executes the named page template inside the layout. The data map is
// extended with Flash and Username entries when absent.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	t, err := load(name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(w, r)
	}
	if _, ok := data["Username"]; !ok {
		data["Username"] = userResolver(r)
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Pontaje & Lucrări"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout.html", data)
}
