package db

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back to sqlite", "", "sqlite://local-dev.sqlite3"},
		{"blank falls back to sqlite", "   ", "sqlite://local-dev.sqlite3"},
		{"legacy postgres scheme upgraded", "postgres://u:p@h:5432/db", "postgresql://u:p@h:5432/db"},
		{"postgresql passes through", "postgresql://u:p@h/db", "postgresql://u:p@h/db"},
		{"sqlite passes through", "sqlite://data.sqlite3", "sqlite://data.sqlite3"},
		{"quotes trimmed", `"postgresql://u@h/db"`, "postgresql://u@h/db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsPostgres(t *testing.T) {
	if !IsPostgres("postgresql://u@h/db") {
		t.Error("postgresql:// should be postgres")
	}
	if IsPostgres("sqlite://x.sqlite3") {
		t.Error("sqlite:// should not be postgres")
	}
}

func TestSQLitePath(t *testing.T) {
	if got := SQLitePath("sqlite://data.sqlite3"); got != "data.sqlite3" {
		t.Errorf("SQLitePath = %q, want data.sqlite3", got)
	}
	if got := SQLitePath("plain.sqlite3"); got != "plain.sqlite3" {
		t.Errorf("SQLitePath = %q, want unchanged", got)
	}
}
