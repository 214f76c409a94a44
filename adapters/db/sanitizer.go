package db

import (
	"regexp"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host in URL-style DSNs
	connStringPattern = regexp.MustCompile(`://[^:/@\s]+:[^@\s]+@`)

	// user:pass@tcp(host) in MySQL-style DSNs
	mysqlCredsPattern = regexp.MustCompile(`^[^:/@\s]+:[^@/\s]*@`)
)

// SanitizeConnectionString removes credentials from a DSN before it is logged or reported
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
	sanitized = mysqlCredsPattern.ReplaceAllString(sanitized, RedactedText+"@")
	return sanitized
}

// SanitizeError strips credentials from driver error messages
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}

// SanitizeQuery truncates a SQL query for logging
func SanitizeQuery(query string) string {
	if len(query) > MaxQueryLogLength {
		query = query[:MaxQueryLogLength] + "..."
	}
	return passwordPattern.ReplaceAllString(query, "${1}="+RedactedText)
}
