// security.go sets the protective response headers for the admin API. The
// panel frontend calls this API from a browser with a session cookie, so
// responses must never be framed, sniffed, or held in shared caches.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersConfig controls the protective headers added to every response.
type SecurityHeadersConfig struct {
	// EnableHSTS emits Strict-Transport-Security. Off for plain-HTTP dev setups.
	EnableHSTS bool
	// HSTSMaxAgeSeconds is the HSTS max-age directive.
	HSTSMaxAgeSeconds int
	// HSTSIncludeSubdomains extends HSTS to subdomains.
	HSTSIncludeSubdomains bool
	// DenyFraming emits X-Frame-Options: DENY. The panel is never embedded.
	DenyFraming bool
	// ContentSecurityPolicy is the CSP header value, empty to omit.
	ContentSecurityPolicy string
	// ReferrerPolicy is the Referrer-Policy header value, empty to omit.
	ReferrerPolicy string
	// NoStore emits Cache-Control: no-store. Every response is scoped to the
	// caller's session (asset lists, employee data, reset confirmations) and
	// must not be served to another user by an intermediary.
	NoStore bool
}

// AdminAPISecurityHeaders returns the posture applied to every route:
// JSON only, no inline content, cookie-authenticated.
func AdminAPISecurityHeaders() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		EnableHSTS:            true,
		HSTSMaxAgeSeconds:     31536000, // 1 year
		HSTSIncludeSubdomains: true,
		DenyFraming:           true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		NoStore:               true,
	}
}

// SecurityHeadersMiddleware adds the configured headers to every response.
// Registered before the session middleware so error responses carry them too.
func SecurityHeadersMiddleware(cfg SecurityHeadersConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.EnableHSTS {
			hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAgeSeconds)
			if cfg.HSTSIncludeSubdomains {
				hsts += "; includeSubDomains"
			}
			c.Header("Strict-Transport-Security", hsts)
		}
		if cfg.DenyFraming {
			c.Header("X-Frame-Options", "DENY")
		}
		if cfg.ContentSecurityPolicy != "" {
			c.Header("Content-Security-Policy", cfg.ContentSecurityPolicy)
		}
		if cfg.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", cfg.ReferrerPolicy)
		}
		if cfg.NoStore {
			c.Header("Cache-Control", "no-store")
		}

		// Unconditional: correct for a JSON-only API in every deployment.
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Header("Cross-Origin-Resource-Policy", "same-origin")

		c.Next()
	}
}
