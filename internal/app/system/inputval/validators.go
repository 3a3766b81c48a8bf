// internal/app/system/inputval/validators.go
package inputval

import (
	"net/mail"
	"strings"
)

// IsValidEmail reports whether s parses as a bare RFC 5322 address
// (display-name forms like "User <u@example.com>" are rejected).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <addr>"; require the bare form.
	return addr.Address == s
}

// IsValidObjectID reports whether s looks like a 24-char hex Mongo ObjectID.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 24 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
