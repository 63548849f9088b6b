// uuid.go validates route parameters that must be UUIDs before they reach SQL.
package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateUUID validates that the string parses as a UUID. Used on :id route
// parameters so a malformed ID yields a 404/400 instead of a Postgres cast error.
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	return nil
}
