// email.go provides email address format validation used by the login,
// password reset, and invitation handlers.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidateEmail validates that the string is a plain RFC 5322 address.
// Display names ("Jane <jane@example.com>") are rejected: the handlers store
// the address verbatim and a display-name form would leak into SQL lookups
// and outbound mail headers.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	if addr.Address != email {
		return fmt.Errorf("invalid email address: display names are not allowed")
	}
	if !strings.Contains(strings.SplitN(email, "@", 2)[1], ".") {
		return fmt.Errorf("invalid email address: domain must be fully qualified")
	}
	return nil
}

// NormalizeEmail lowercases and trims an address for storage and lookups.
// Lookups are case-insensitive per RFC 5321 mailbox conventions in practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
