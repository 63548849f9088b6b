// Package middleware provides Gin HTTP middleware for authentication, authorization,
// rate limiting, security headers, and request logging.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → RateLimit → Session → Guards → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before session validation to block brute-force attacks
// before any DB work. The session middleware populates the caller's identity;
// the guards (RequireUser, RequireOrgAdmin) read from that context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flx-software/asset-admin/internal/auth"
	"github.com/flx-software/asset-admin/internal/db/models"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/identity"
)

// Context keys set by SessionMiddleware
const (
	ContextUser     = "user"
	ContextUserID   = "user_id"
	ContextIdentity = "identity"
)

// SessionCookieName is the cookie carrying the session token for browser clients
const SessionCookieName = "aa_session"

// SessionMiddleware validates the session token from the Authorization header or
// the session cookie and attaches the user and resolved identity to the context.
// Requests without a valid session continue unauthenticated; the guards decide
// what that means per route.
func SessionMiddleware(tokens *auth.TokenManager, userRepo *repositories.UserRepository, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractSessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil || user.Status != models.UserStatusActive {
			c.Next()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextIdentity, resolver.Resolve(c.Request.Context(), user.ID, user.Email))

		c.Next()
	}
}

// extractSessionToken pulls the session token from the Bearer header when
// present, falling back to the session cookie. The header wins so API clients
// can override a stale browser cookie.
func extractSessionToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// CurrentIdentity returns the resolved identity for the request, or nil when
// the request is unauthenticated
func CurrentIdentity(c *gin.Context) *identity.Identity {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil
	}
	id, ok := v.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}

// CurrentUser returns the authenticated user for the request, or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireUser rejects unauthenticated requests. Browser requests get a 302 to
// the login page; API clients (JSON Accept or XHR) get a 401. Authenticated
// requests pass through even when the caller has no organization — page
// handlers render their own degraded state, and redirecting here would loop a
// half-provisioned account between dashboard and login forever.
func RequireUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) != nil {
			c.Next()
			return
		}

		if wantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}

// wantsJSON reports whether the client expects a JSON error instead of a redirect
func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// RequireOrgAdmin rejects callers who do not hold the admin role in their
// organization. The role is re-read from the database on every request rather
// than trusted from the session-resolved flags, so a revoked admin loses
// access immediately. Fails closed on lookup errors.
func RequireOrgAdmin(roleRepo *repositories.RoleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}
		if !id.HasOrg() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "No organization",
			})
			return
		}

		isAdmin, err := roleRepo.HasRole(c.Request.Context(), *id.OrgID, id.UserID, models.RoleAdmin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Authorization check failed",
			})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin role required",
			})
			return
		}

		c.Next()
	}
}
