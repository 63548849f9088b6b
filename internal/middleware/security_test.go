package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// applySecurityHeaders runs a GET /api/v1/assets through SecurityHeadersMiddleware
// and returns the response recorder so callers can inspect headers.
func applySecurityHeaders(cfg SecurityHeadersConfig) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(cfg))
	r.GET("/api/v1/assets", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/assets", nil)
	r.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// AdminAPISecurityHeaders
// ---------------------------------------------------------------------------

func TestAdminAPISecurityHeaders(t *testing.T) {
	cfg := AdminAPISecurityHeaders()

	if !cfg.EnableHSTS {
		t.Error("AdminAPISecurityHeaders().EnableHSTS = false, want true")
	}
	if cfg.HSTSMaxAgeSeconds != 31536000 {
		t.Errorf("HSTSMaxAgeSeconds = %d, want 31536000", cfg.HSTSMaxAgeSeconds)
	}
	if !cfg.HSTSIncludeSubdomains {
		t.Error("HSTSIncludeSubdomains = false, want true")
	}
	if !cfg.DenyFraming {
		t.Error("DenyFraming = false, want true")
	}
	if !strings.Contains(cfg.ContentSecurityPolicy, "default-src 'none'") {
		t.Errorf("ContentSecurityPolicy = %q, want a deny-all policy", cfg.ContentSecurityPolicy)
	}
	if cfg.ReferrerPolicy != "no-referrer" {
		t.Errorf("ReferrerPolicy = %q, want no-referrer", cfg.ReferrerPolicy)
	}
	if !cfg.NoStore {
		t.Error("NoStore = false, want true (responses are session-scoped)")
	}
}

// ---------------------------------------------------------------------------
// SecurityHeadersMiddleware
// ---------------------------------------------------------------------------

func TestSecurityHeadersMiddleware_HSTS(t *testing.T) {
	t.Run("hsts with subdomains", func(t *testing.T) {
		cfg := SecurityHeadersConfig{
			EnableHSTS:            true,
			HSTSMaxAgeSeconds:     31536000,
			HSTSIncludeSubdomains: true,
		}
		w := applySecurityHeaders(cfg)
		hsts := w.Header().Get("Strict-Transport-Security")
		if hsts != "max-age=31536000; includeSubDomains" {
			t.Errorf("HSTS = %q, want max-age=31536000; includeSubDomains", hsts)
		}
	})

	t.Run("hsts without subdomains", func(t *testing.T) {
		cfg := SecurityHeadersConfig{EnableHSTS: true, HSTSMaxAgeSeconds: 86400}
		w := applySecurityHeaders(cfg)
		if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=86400" {
			t.Errorf("HSTS = %q, want max-age=86400", got)
		}
	})

	t.Run("hsts disabled", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{EnableHSTS: false})
		if got := w.Header().Get("Strict-Transport-Security"); got != "" {
			t.Errorf("HSTS should be absent when disabled, got %q", got)
		}
	})
}

func TestSecurityHeadersMiddleware_FrameDenial(t *testing.T) {
	t.Run("framing denied", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{DenyFraming: true})
		if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("X-Frame-Options = %q, want DENY", got)
		}
	})

	t.Run("framing allowed", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{DenyFraming: false})
		if got := w.Header().Get("X-Frame-Options"); got != "" {
			t.Errorf("X-Frame-Options should be absent when not denying, got %q", got)
		}
	})
}

func TestSecurityHeadersMiddleware_CSP(t *testing.T) {
	t.Run("csp set when non-empty", func(t *testing.T) {
		policy := "default-src 'none'"
		w := applySecurityHeaders(SecurityHeadersConfig{ContentSecurityPolicy: policy})
		if got := w.Header().Get("Content-Security-Policy"); got != policy {
			t.Errorf("Content-Security-Policy = %q, want %q", got, policy)
		}
	})

	t.Run("csp absent when empty", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{ContentSecurityPolicy: ""})
		if got := w.Header().Get("Content-Security-Policy"); got != "" {
			t.Errorf("Content-Security-Policy should be absent when empty, got %q", got)
		}
	})
}

func TestSecurityHeadersMiddleware_ReferrerPolicy(t *testing.T) {
	t.Run("referrer policy set when non-empty", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{ReferrerPolicy: "no-referrer"})
		if got := w.Header().Get("Referrer-Policy"); got != "no-referrer" {
			t.Errorf("Referrer-Policy = %q, want no-referrer", got)
		}
	})

	t.Run("referrer policy absent when empty", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{ReferrerPolicy: ""})
		if got := w.Header().Get("Referrer-Policy"); got != "" {
			t.Errorf("Referrer-Policy should be absent when empty, got %q", got)
		}
	})
}

func TestSecurityHeadersMiddleware_NoStore(t *testing.T) {
	t.Run("no-store set", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{NoStore: true})
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Control = %q, want no-store", got)
		}
	})

	t.Run("no-store absent when disabled", func(t *testing.T) {
		w := applySecurityHeaders(SecurityHeadersConfig{NoStore: false})
		if got := w.Header().Get("Cache-Control"); got != "" {
			t.Errorf("Cache-Control should be absent when disabled, got %q", got)
		}
	})
}

func TestSecurityHeadersMiddleware_FixedHeaders(t *testing.T) {
	// These headers are always set regardless of config.
	w := applySecurityHeaders(SecurityHeadersConfig{})
	tests := []struct{ header, want string }{
		{"X-Content-Type-Options", "nosniff"},
		{"Cross-Origin-Opener-Policy", "same-origin"},
		{"Cross-Origin-Resource-Policy", "same-origin"},
	}
	for _, tt := range tests {
		if got := w.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestSecurityHeadersMiddleware_AdminAPIPosture(t *testing.T) {
	w := applySecurityHeaders(AdminAPISecurityHeaders())
	if w.Code != http.StatusOK {
		t.Errorf("response code = %d, want 200", w.Code)
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("Strict-Transport-Security should be set for the admin API")
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("admin API responses must deny framing")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("admin API responses must not be cached")
	}
}
