// Package models - asset.go defines the Asset model for tracked equipment with a
// free-form properties bag. The inspection timestamp is normalized out of the bag at
// the data-access boundary so read paths never parse JSON themselves.
package models

import (
	"encoding/json"
	"time"
)

// Asset represents a tracked piece of equipment belonging to an organization
type Asset struct {
	ID          string          `json:"id"`
	OrgID       string          `json:"org_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	InventoryNo string          `json:"inventory_no"`
	Props       json.RawMessage `json:"props,omitempty"`
	// NextInspectionAt is resolved from the dedicated column when set, otherwise
	// from the props bag (next_inspection_at preferred over legacy nextInspection).
	NextInspectionAt *time.Time `json:"next_inspection_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// inspection timestamp keys in the props bag, in precedence order
var inspectionKeys = []string{"next_inspection_at", "nextInspection"}

// InspectionFromProps extracts the next-inspection timestamp from a raw props bag.
// The snake_case key wins over the legacy camelCase one. Values must be RFC 3339
// or plain dates; anything unparseable yields nil.
func InspectionFromProps(props json.RawMessage) *time.Time {
	if len(props) == 0 {
		return nil
	}
	var bag map[string]any
	if err := json.Unmarshal(props, &bag); err != nil {
		return nil
	}
	for _, key := range inspectionKeys {
		raw, ok := bag[key]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
		return nil
	}
	return nil
}
