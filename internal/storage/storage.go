package storage

import (
	"net/url"
	"strings"
	"time"
)

// TimestampFormat is how every timestamp column is written.
const TimestampFormat = time.RFC3339Nano

// IsPostgres reports whether target looks like a PostgreSQL connection string
// rather than a SQLite file path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string carries a password,
// either in the URL userinfo or as a password= DSN pair.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgres(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if _, ok := u.User.Password(); ok {
			return true
		}
		return u.Query().Get("password") != ""
	}
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.Format(TimestampFormat)
}

// FormatOptionalTime renders t for storage, returning nil for a nil pointer so the column is NULL.
func FormatOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(TimestampFormat)
}

// ParseTime parses a stored timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimestampFormat, s)
}

// ParseOptionalTime parses a nullable stored timestamp. Empty input yields nil.
func ParseOptionalTime(s string, valid bool) (*time.Time, error) {
	if !valid || s == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
