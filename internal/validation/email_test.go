package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"simple address", "jane@example.com", false},
		{"subdomain", "jane@mail.example.com", false},
		{"plus tag", "jane+tag@example.com", false},
		{"uppercase", "Jane@Example.com", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"missing at", "jane.example.com", true},
		{"missing domain", "jane@", true},
		{"bare hostname domain", "jane@localhost", true},
		{"display name form", "Jane <jane@example.com>", true},
		{"double at", "jane@@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
