package db

import "strings"

const defaultSQLitePath = "local-dev.sqlite3"

// NormalizeURL cleans the configured database URL. Hosting platforms still
// hand out the legacy postgres:// scheme; both spellings are accepted. An
// empty value falls back to a local sqlite file for development.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return "sqlite://" + defaultSQLitePath
	}
	if strings.HasPrefix(s, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(s, "postgres://")
	}
	return s
}

// IsPostgres reports whether the normalized URL targets postgres.
func IsPostgres(u string) bool {
	return strings.HasPrefix(u, "postgresql://")
}

// SQLitePath extracts the file path from a sqlite:// URL, or returns the
// value unchanged when it carries no scheme.
func SQLitePath(u string) string {
	return strings.TrimPrefix(u, "sqlite://")
}
