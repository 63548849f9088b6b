package auth

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// ---------------------------------------------------------------------------
// TokenManager
// ---------------------------------------------------------------------------

func TestGenerateAndValidate(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Generate("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", claims.Email)
	}
	if claims.Subject != "user-123" {
		t.Errorf("Subject = %q, want user-123", claims.Subject)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour)

	token, err := m.Generate("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := other.Validate(token); err == nil {
		t.Error("Validate() with wrong secret succeeded, want error")
	}
}

func TestValidate_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Generate("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Error("Validate() on expired token succeeded, want error")
	}
}

func TestValidate_Garbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Validate(input); err == nil {
			t.Errorf("Validate(%q) succeeded, want error", input)
		}
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	m := NewTokenManager(testSecret, 0)
	if m.SessionTTL() != 12*time.Hour {
		t.Errorf("SessionTTL() = %v, want 12h default", m.SessionTTL())
	}
}

// ---------------------------------------------------------------------------
// Password hashing
// ---------------------------------------------------------------------------

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword() = true for wrong password")
	}
	if CheckPassword("", "anything") {
		t.Error("CheckPassword() = true for empty hash")
	}
}

// ---------------------------------------------------------------------------
// One-time tokens
// ---------------------------------------------------------------------------

func TestGenerateOneTimeToken(t *testing.T) {
	token, hash, err := GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("GenerateOneTimeToken() error: %v", err)
	}
	if token == "" || hash == "" {
		t.Fatal("GenerateOneTimeToken() returned empty values")
	}
	if token == hash {
		t.Error("raw token equals its hash")
	}
	if got := HashOneTimeToken(token); got != hash {
		t.Errorf("HashOneTimeToken(token) = %q, want %q", got, hash)
	}

	// hex SHA-256 digest is always 64 characters
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	token2, hash2, err := GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("GenerateOneTimeToken() error: %v", err)
	}
	if token == token2 || hash == hash2 {
		t.Error("two generated tokens are identical")
	}
}
