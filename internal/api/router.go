// Package api wires together all HTTP routes for the asset admin backend.
//
// Route grouping philosophy:
//   - Credential endpoints (/api/v1/auth/login, the reset flow, invite
//     acceptance) are public but sit behind a strict per-IP rate limit.
//   - Everything else under /api/v1 requires a session. Unauthenticated browser
//     requests are redirected to the login page; API clients get a 401.
//   - Mutating employee endpoints additionally require the admin role, which is
//     re-read from the database on every request.
package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/flx-software/asset-admin/internal/api/assets"
	"github.com/flx-software/asset-admin/internal/api/dashboard"
	"github.com/flx-software/asset-admin/internal/api/employees"
	"github.com/flx-software/asset-admin/internal/api/session"
	"github.com/flx-software/asset-admin/internal/auth"
	"github.com/flx-software/asset-admin/internal/config"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/identity"
	"github.com/flx-software/asset-admin/internal/mail"
	"github.com/flx-software/asset-admin/internal/middleware"
)

// Version is the service version reported by /version. Overridden at build time
// via -ldflags "-X github.com/flx-software/asset-admin/internal/api.Version=...".
var Version = "0.1.0"

// BackgroundServices holds references to background resources that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	assetRepo := repositories.NewAssetRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)

	// Wrap *sql.DB with sqlx for the dashboard aggregation queries
	sqlxDB := sqlx.NewDb(db, "postgres")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	resolver := identity.NewResolver(employeeRepo, roleRepo, orgRepo, slog.Default())
	mailer := mail.NewMailer(&cfg.Notifications)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.AdminAPISecurityHeaders()))

	// Probes and version
	router.GET("/health", healthCheckHandler(db))
	router.GET("/ready", readinessHandler(db))
	router.GET("/version", versionHandler())

	// Rate limiters: a strict bucket for credential endpoints, a general one
	// for the rest of the API.
	authRateLimiter := middleware.NewRateLimiter(authRateLimitConfig(cfg))
	generalRateLimiter := middleware.NewRateLimiter(generalRateLimitConfig(cfg))

	sessionHandlers := session.NewHandlers(cfg, userRepo, tokenRepo, tokens, mailer)
	assetHandlers := assets.NewHandlers(assetRepo)
	dashboardHandlers := dashboard.NewHandlers(sqlxDB, assetRepo)
	employeeHandlers := employees.NewHandlers(cfg, db, mailer)

	sessionMW := middleware.SessionMiddleware(tokens, userRepo, resolver)
	requireUser := middleware.RequireUser(cfg.Auth.LoginPath)

	apiV1 := router.Group("/api/v1")
	{
		// Credential endpoints: rate-limited first so brute-force attempts are
		// rejected before any token parsing or DB work.
		authGroup := apiV1.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		authGroup.Use(sessionMW)
		{
			authGroup.POST("/login", sessionHandlers.Login)
			authGroup.POST("/logout", sessionHandlers.Logout)
			authGroup.POST("/reset-password", sessionHandlers.RequestReset)
			authGroup.POST("/reset-password/confirm", sessionHandlers.ConfirmReset)

			authGroup.GET("/me", requireUser, sessionHandlers.Me)
			authGroup.POST("/password", requireUser, sessionHandlers.UpdatePassword)
		}

		// Invitation acceptance is public (the invitee has no session yet) but
		// shares the strict credential bucket.
		apiV1.POST("/employees/invite/accept",
			middleware.RateLimitMiddleware(authRateLimiter),
			employeeHandlers.AcceptInvite)

		// Application endpoints: session required.
		appGroup := apiV1.Group("")
		appGroup.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		appGroup.Use(sessionMW)
		appGroup.Use(requireUser)
		{
			appGroup.GET("/dashboard", dashboardHandlers.Get)

			appGroup.GET("/assets", assetHandlers.List)
			appGroup.GET("/assets/:id", assetHandlers.Get)

			appGroup.GET("/employees", employeeHandlers.List)
			appGroup.POST("/employees/invite",
				middleware.RequireOrgAdmin(roleRepo),
				employeeHandlers.Invite)
		}
	}

	bg := &BackgroundServices{
		rateLimiters: []*middleware.RateLimiter{authRateLimiter, generalRateLimiter},
	}

	return router, bg
}

// authRateLimitConfig builds the credential-endpoint limiter from config,
// falling back to the package defaults.
func authRateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	out := middleware.AuthRateLimitConfig()
	if cfg.Security.RateLimiting.AuthRequestsPerMinute > 0 {
		out.RequestsPerMinute = cfg.Security.RateLimiting.AuthRequestsPerMinute
	}
	return out
}

// generalRateLimitConfig builds the general API limiter from config.
func generalRateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	out := middleware.DefaultRateLimitConfig()
	if cfg.Security.RateLimiting.RequestsPerMinute > 0 {
		out.RequestsPerMinute = cfg.Security.RateLimiting.RequestsPerMinute
	}
	if cfg.Security.RateLimiting.Burst > 0 {
		out.BurstSize = cfg.Security.RateLimiting.Burst
	}
	return out
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: database not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current service and API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     Version,
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		requestID, _ := c.Get(middleware.RequestIDKey)
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", fmt.Sprintf("%v", requestID)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
