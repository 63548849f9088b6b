package models

import (
	"encoding/json"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// InspectionFromProps
// ---------------------------------------------------------------------------

func TestInspectionFromProps(t *testing.T) {
	tests := []struct {
		name  string
		props string
		want  string // RFC 3339, empty means nil
	}{
		{"empty bag", `{}`, ""},
		{"nil props", ``, ""},
		{"snake case key", `{"next_inspection_at":"2026-09-15T00:00:00Z"}`, "2026-09-15T00:00:00Z"},
		{"legacy camel case key", `{"nextInspection":"2026-09-15T00:00:00Z"}`, "2026-09-15T00:00:00Z"},
		{
			"snake case wins over camel case",
			`{"nextInspection":"2026-01-01T00:00:00Z","next_inspection_at":"2026-09-15T00:00:00Z"}`,
			"2026-09-15T00:00:00Z",
		},
		{"plain date accepted", `{"next_inspection_at":"2026-09-15"}`, "2026-09-15T00:00:00Z"},
		{"unparseable value yields nil", `{"next_inspection_at":"soon"}`, ""},
		{"non-string value yields nil", `{"next_inspection_at":12345}`, ""},
		{"present but invalid does not fall back", `{"next_inspection_at":"bogus","nextInspection":"2026-09-15T00:00:00Z"}`, ""},
		{"malformed json yields nil", `{not json`, ""},
		{"unrelated keys ignored", `{"serial":"A-100","weight":12}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InspectionFromProps(json.RawMessage(tt.props))
			if tt.want == "" {
				if got != nil {
					t.Errorf("InspectionFromProps() = %v, want nil", got)
				}
				return
			}
			want, err := time.Parse(time.RFC3339, tt.want)
			if err != nil {
				t.Fatal("bad test fixture:", err)
			}
			if got == nil || !got.Equal(want) {
				t.Errorf("InspectionFromProps() = %v, want %v", got, want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Role helpers
// ---------------------------------------------------------------------------

func TestValidRole(t *testing.T) {
	for _, name := range []string{RoleAdmin, RoleUser, RoleHR} {
		if !ValidRole(name) {
			t.Errorf("ValidRole(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "root", "Admin", "superuser"} {
		if ValidRole(name) {
			t.Errorf("ValidRole(%q) = true, want false", name)
		}
	}
}

func TestHasRole(t *testing.T) {
	roles := []string{"user", "hr"}
	if !HasRole(roles, "hr") {
		t.Error("HasRole() = false for held role, want true")
	}
	if HasRole(roles, "admin") {
		t.Error("HasRole() = true for missing role, want false")
	}
	if HasRole(nil, "admin") {
		t.Error("HasRole(nil) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// Token lifetimes
// ---------------------------------------------------------------------------

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Now()
	used := now.Add(-time.Minute)

	tok := &PasswordResetToken{ExpiresAt: now.Add(time.Hour)}
	if !tok.Usable(now) {
		t.Error("fresh token not usable")
	}

	tok.UsedAt = &used
	if tok.Usable(now) {
		t.Error("used token still usable")
	}

	expired := &PasswordResetToken{ExpiresAt: now.Add(-time.Second)}
	if expired.Usable(now) {
		t.Error("expired token still usable")
	}
}

func TestInvitationUsable(t *testing.T) {
	now := time.Now()
	accepted := now.Add(-time.Minute)

	inv := &Invitation{ExpiresAt: now.Add(time.Hour)}
	if !inv.Usable(now) {
		t.Error("fresh invitation not usable")
	}

	inv.AcceptedAt = &accepted
	if inv.Usable(now) {
		t.Error("accepted invitation still usable")
	}
}

// ---------------------------------------------------------------------------
// User.CanSignIn
// ---------------------------------------------------------------------------

func TestUserCanSignIn(t *testing.T) {
	hash := "$2a$12$abcdefghijklmnopqrstuv"

	u := &User{Status: UserStatusActive, PasswordHash: &hash}
	if !u.CanSignIn() {
		t.Error("active user with password cannot sign in")
	}

	invited := &User{Status: UserStatusInvited, PasswordHash: nil}
	if invited.CanSignIn() {
		t.Error("invited user without password can sign in")
	}

	noHash := &User{Status: UserStatusActive, PasswordHash: nil}
	if noHash.CanSignIn() {
		t.Error("active user without password can sign in")
	}
}
