// Package session implements the authentication endpoints: login, logout,
// current-user lookup, password update, and the password reset flow.
//
// Reset tokens are single-use and stored hashed; the reset request endpoint
// answers identically whether or not the address maps to an account, so it
// cannot be used to enumerate users.
package session

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flx-software/asset-admin/internal/auth"
	"github.com/flx-software/asset-admin/internal/config"
	"github.com/flx-software/asset-admin/internal/db/models"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/mail"
	"github.com/flx-software/asset-admin/internal/middleware"
	"github.com/flx-software/asset-admin/internal/telemetry"
	"github.com/flx-software/asset-admin/internal/validation"
)

// Handlers serves the /auth endpoint group
type Handlers struct {
	cfg       *config.Config
	userRepo  *repositories.UserRepository
	tokenRepo *repositories.TokenRepository
	tokens    *auth.TokenManager
	mailer    *mail.Mailer
}

// NewHandlers creates the auth endpoint handlers.
func NewHandlers(cfg *config.Config, userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository, tokens *auth.TokenManager, mailer *mail.Mailer) *Handlers {
	return &Handlers{
		cfg:       cfg,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		mailer:    mailer,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// secureCookies reports whether session cookies should carry the Secure flag,
// derived from the public URL scheme so local HTTP development keeps working.
func (h *Handlers) secureCookies() bool {
	return strings.HasPrefix(h.cfg.Server.GetPublicURL(), "https://")
}

// setSessionCookie writes the session cookie for browser clients. API clients
// use the token from the response body instead.
func (h *Handlers) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(ttl.Seconds()), "/", "", h.secureCookies(), true)
}

// @Summary      Log in
// @Description  Exchanges email and password for a session token. The token is returned in the body and also set as an HttpOnly cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "token, expires_at, user"
// @Failure      400  {object}  map[string]interface{}  "Malformed request"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /api/v1/auth/login [post]
// Login authenticates a user by email and password.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	email := validation.NormalizeEmail(req.Email)
	user, err := h.userRepo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Error("login: user lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	// One response for every failure mode so the endpoint cannot be used to
	// probe which addresses have accounts.
	if user == nil || user.PasswordHash == nil {
		telemetry.LoginAttemptsTotal.WithLabelValues("bad_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.CanSignIn() {
		telemetry.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !auth.CheckPassword(*user.PasswordHash, req.Password) {
		telemetry.LoginAttemptsTotal.WithLabelValues("bad_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		slog.Error("login: token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.setSessionCookie(c, token, h.tokens.SessionTTL())

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(h.tokens.SessionTTL()).UTC().Format(time.RFC3339),
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// @Summary      Log out
// @Description  Clears the session cookie. Issued tokens expire on their own; there is no server-side session store to invalidate.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Router       /api/v1/auth/logout [post]
// Logout clears the session cookie.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// @Summary      Current user
// @Description  Returns the authenticated user's profile and resolved organization context.
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user, identity"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/v1/auth/me [get]
// Me returns the caller's profile and identity.
func (h *Handlers) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := middleware.CurrentIdentity(c)
	if user == nil || id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"created_at": user.CreatedAt,
		},
		"identity": id,
	})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// @Summary      Update password
// @Description  Changes the authenticated user's password after verifying the current one.
// @Tags         Auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      400  {object}  map[string]interface{}  "Malformed request or weak password"
// @Failure      403  {object}  map[string]interface{}  "Current password incorrect"
// @Router       /api/v1/auth/password [post]
// UpdatePassword changes the caller's own password.
func (h *Handlers) UpdatePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current and new password are required"})
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters"})
		return
	}
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.CurrentPassword) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("password update: hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if err := h.userRepo.UpdatePassword(c.Request.Context(), user.ID, hash); err != nil {
		slog.Error("password update: persist failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

type resetRequest struct {
	Email string `json:"email" binding:"required"`
}

// resetRedirectBase returns the frontend page reset links point at.
func (h *Handlers) resetRedirectBase() string {
	if h.cfg.Auth.ResetRedirectURL != "" {
		return h.cfg.Auth.ResetRedirectURL
	}
	return h.cfg.Server.GetPublicURL() + "/reset-password"
}

// @Summary      Request password reset
// @Description  Sends a password reset email when the address maps to an active account. The response is identical either way.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      400  {object}  map[string]interface{}  "Malformed request"
// @Router       /api/v1/auth/reset-password [post]
// RequestReset starts the password reset flow.
func (h *Handlers) RequestReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if err := validation.ValidateEmail(strings.TrimSpace(req.Email)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The success response is fixed from here on; failures are logged, never surfaced.
	response := gin.H{"message": "If the account exists, a reset link has been sent"}
	telemetry.PasswordResetRequestsTotal.Inc()

	email := validation.NormalizeEmail(req.Email)
	user, err := h.userRepo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Error("password reset: user lookup failed", "error", err)
		c.JSON(http.StatusOK, response)
		return
	}
	if user == nil || !user.CanSignIn() {
		c.JSON(http.StatusOK, response)
		return
	}

	token, tokenHash, err := auth.GenerateOneTimeToken()
	if err != nil {
		slog.Error("password reset: token generation failed", "error", err)
		c.JSON(http.StatusOK, response)
		return
	}

	err = h.tokenRepo.CreateResetToken(c.Request.Context(), &models.PasswordResetToken{
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.cfg.Auth.ResetTokenTTL),
	})
	if err != nil {
		slog.Error("password reset: token persist failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, response)
		return
	}

	resetURL := h.resetRedirectBase() + "?token=" + token
	if err := h.mailer.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		slog.Warn("password reset: email delivery failed", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, response)
}

type confirmResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// @Summary      Confirm password reset
// @Description  Redeems a reset token and sets the new password. Tokens are single-use and expire after one hour.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      400  {object}  map[string]interface{}  "Invalid or expired token, or weak password"
// @Router       /api/v1/auth/reset-password/confirm [post]
// ConfirmReset redeems a reset token and sets the new password.
func (h *Handlers) ConfirmReset(c *gin.Context) {
	var req confirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password are required"})
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters"})
		return
	}

	tokenHash := auth.HashOneTimeToken(req.Token)
	tok, err := h.tokenRepo.GetResetToken(c.Request.Context(), tokenHash)
	if err != nil {
		slog.Error("password reset confirm: token lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if tok == nil || !tok.Usable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	// Consume before writing the password so a concurrent redeem of the same
	// token loses here instead of overwriting the password twice.
	consumed, err := h.tokenRepo.ConsumeResetToken(c.Request.Context(), tokenHash)
	if err != nil {
		slog.Error("password reset confirm: token consume failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if !consumed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("password reset confirm: hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if err := h.userRepo.UpdatePassword(c.Request.Context(), tok.UserID, hash); err != nil {
		slog.Error("password reset confirm: persist failed", "user_id", tok.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
