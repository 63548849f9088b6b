// Package employees implements the people listing and the invitation flow:
// an org admin invites a colleague by email, which provisions an invited user,
// an employee record with a placeholder personnel number, and a role grant in
// one transaction; the invitee activates the account with a one-time token.
package employees

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flx-software/asset-admin/internal/auth"
	"github.com/flx-software/asset-admin/internal/config"
	"github.com/flx-software/asset-admin/internal/db/models"
	"github.com/flx-software/asset-admin/internal/db/repositories"
	"github.com/flx-software/asset-admin/internal/mail"
	"github.com/flx-software/asset-admin/internal/middleware"
	"github.com/flx-software/asset-admin/internal/telemetry"
	"github.com/flx-software/asset-admin/internal/validation"
)

// personnelNoAttempts bounds the retry loop for placeholder personnel numbers.
// The suffix space is 36^6; two collisions in a row already mean something is
// wrong with the random source.
const personnelNoAttempts = 3

// Handlers serves the /employees endpoint group
type Handlers struct {
	cfg          *config.Config
	db           *sql.DB
	employeeRepo *repositories.EmployeeRepository
	roleRepo     *repositories.RoleRepository
	userRepo     *repositories.UserRepository
	orgRepo      *repositories.OrganizationRepository
	tokenRepo    *repositories.TokenRepository
	mailer       *mail.Mailer
}

// NewHandlers creates the employee endpoint handlers. The raw *sql.DB is kept
// alongside the repositories because the invite flow spans one transaction.
func NewHandlers(cfg *config.Config, db *sql.DB, mailer *mail.Mailer) *Handlers {
	return &Handlers{
		cfg:          cfg,
		db:           db,
		employeeRepo: repositories.NewEmployeeRepository(db),
		roleRepo:     repositories.NewRoleRepository(db),
		userRepo:     repositories.NewUserRepository(db),
		orgRepo:      repositories.NewOrganizationRepository(db),
		tokenRepo:    repositories.NewTokenRepository(db),
		mailer:       mailer,
	}
}

// @Summary      List employees
// @Description  Returns the caller's organization's employees in hire order, each with the roles their linked user holds. Includes the caller's admin flag so the UI can show the invite action.
// @Tags         Employees
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "employees, is_admin"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/employees [get]
// List returns the caller's organization's employees with their roles.
func (h *Handlers) List(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil || !id.HasOrg() {
		c.JSON(http.StatusOK, gin.H{
			"employees": []*models.EmployeeWithRoles{},
			"is_admin":  false,
		})
		return
	}
	orgID := *id.OrgID
	ctx := c.Request.Context()

	emps, err := h.employeeRepo.ListByOrg(ctx, orgID)
	if err != nil {
		slog.Error("employees: list failed", "org_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list employees"})
		return
	}

	rolesByUser, err := h.roleRepo.ListByOrg(ctx, orgID)
	if err != nil {
		slog.Error("employees: role listing failed", "org_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list employees"})
		return
	}

	out := make([]*models.EmployeeWithRoles, 0, len(emps))
	for _, emp := range emps {
		e := &models.EmployeeWithRoles{Employee: *emp, Roles: []string{}}
		if emp.UserID != nil {
			if roles, ok := rolesByUser[*emp.UserID]; ok {
				e.Roles = roles
			}
		}
		out = append(out, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": out,
		"is_admin":  id.IsAdmin,
	})
}

type inviteRequest struct {
	Email     string `json:"email" binding:"required"`
	Role      string `json:"role" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
}

// @Summary      Invite employee
// @Description  Provisions an invited user, an employee record, and a role grant in one transaction, then emails an activation link. Admin only.
// @Tags         Employees
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "employee"
// @Failure      400  {object}  map[string]interface{}  "Validation failure"
// @Failure      403  {object}  map[string]interface{}  "Admin role required"
// @Failure      409  {object}  map[string]interface{}  "Email already in use"
// @Router       /api/v1/employees/invite [post]
// Invite provisions a new invited employee. Guarded by RequireOrgAdmin.
func (h *Handlers) Invite(c *gin.Context) {
	id := middleware.CurrentIdentity(c)
	if id == nil || !id.HasOrg() {
		c.JSON(http.StatusForbidden, gin.H{"error": "No organization"})
		return
	}
	orgID := *id.OrgID
	ctx := c.Request.Context()

	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and role are required"})
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Role must be %q or %q", models.RoleAdmin, models.RoleUser)})
		return
	}

	email := validation.NormalizeEmail(req.Email)
	existing, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("invite: user lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}

	token, tokenHash, err := auth.GenerateOneTimeToken()
	if err != nil {
		slog.Error("invite: token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		ID:     uuid.New().String(),
		Email:  email,
		Name:   strings.TrimSpace(req.FirstName + " " + req.LastName),
		Status: models.UserStatusInvited,
	}

	var emp *models.Employee
	err = h.withTx(ctx, func(tx *sql.Tx) error {
		if err := h.userRepo.CreateTx(ctx, tx, user); err != nil {
			return err
		}

		var txErr error
		emp, txErr = h.createEmployeeTx(ctx, tx, orgID, user, &req)
		if txErr != nil {
			return txErr
		}

		if err := h.roleRepo.AddTx(ctx, tx, orgID, user.ID, req.Role); err != nil {
			return err
		}

		return h.tokenRepo.CreateInvitationTx(ctx, tx, &models.Invitation{
			TokenHash: tokenHash,
			UserID:    user.ID,
			OrgID:     orgID,
			ExpiresAt: time.Now().Add(h.cfg.Auth.InviteTokenTTL),
		})
	})
	if err != nil {
		slog.Error("invite: transaction failed", "org_id", orgID, "error", err)
		// The admin panel shows backend errors to the (trusted, internal)
		// admin audience to make provisioning failures debuggable.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	telemetry.InvitationsSentTotal.Inc()

	// Email after commit; a delivery failure must not roll back provisioning.
	orgName := ""
	if id.OrgName != nil {
		orgName = *id.OrgName
	}
	inviteURL := h.inviteRedirectBase() + "?token=" + token
	if err := h.mailer.SendInvitation(email, req.FirstName, orgName, inviteURL); err != nil {
		slog.Warn("invite: email delivery failed", "org_id", orgID, "email", email, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{"employee": emp})
}

// inviteRedirectBase returns the frontend page invitation links point at.
func (h *Handlers) inviteRedirectBase() string {
	if h.cfg.Auth.InviteRedirectURL != "" {
		return h.cfg.Auth.InviteRedirectURL
	}
	return h.cfg.Server.GetPublicURL() + "/invite"
}

// createEmployeeTx inserts the employee record, retrying with a fresh
// placeholder personnel number when the unique constraint trips.
func (h *Handlers) createEmployeeTx(ctx context.Context, tx *sql.Tx, orgID string, user *models.User, req *inviteRequest) (*models.Employee, error) {
	var lastErr error
	for i := 0; i < personnelNoAttempts; i++ {
		emp := &models.Employee{
			ID:          uuid.New().String(),
			OrgID:       orgID,
			UserID:      &user.ID,
			PersonnelNo: placeholderPersonnelNo(),
			Email:       user.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Position:    req.Position,
			Status:      models.EmployeeStatusInvited,
		}
		err := h.employeeRepo.CreateTx(ctx, tx, emp)
		if err == nil {
			return emp, nil
		}
		if !repositories.IsPersonnelNoConflict(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("could not allocate a personnel number: %w", lastErr)
}

// personnelNoAlphabet excludes nothing; collisions are handled by retry.
const personnelNoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// placeholderPersonnelNo generates an INV- placeholder until HR assigns a real
// personnel number.
func placeholderPersonnelNo() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process is in a bad state; fall back to
		// a time-derived suffix so provisioning still completes.
		return fmt.Sprintf("INV-%06d", time.Now().UnixNano()%1000000)
	}
	for i, b := range buf {
		buf[i] = personnelNoAlphabet[int(b)%len(personnelNoAlphabet)]
	}
	return "INV-" + string(buf)
}

// withTx runs fn inside a transaction, rolling back on error.
func (h *Handlers) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type acceptInviteRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Accept invitation
// @Description  Redeems an invitation token, sets the account password, and activates the user and employee records.
// @Tags         Employees
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      400  {object}  map[string]interface{}  "Invalid or expired invitation, or weak password"
// @Router       /api/v1/employees/invite/accept [post]
// AcceptInvite completes the invitation flow.
func (h *Handlers) AcceptInvite(c *gin.Context) {
	var req acceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and password are required"})
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}
	ctx := c.Request.Context()

	tokenHash := auth.HashOneTimeToken(req.Token)
	inv, err := h.tokenRepo.GetInvitation(ctx, tokenHash)
	if err != nil {
		slog.Error("invite accept: token lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}
	if inv == nil || !inv.Usable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired invitation"})
		return
	}

	accepted, err := h.tokenRepo.AcceptInvitation(ctx, tokenHash)
	if err != nil {
		slog.Error("invite accept: token consume failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}
	if !accepted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired invitation"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("invite accept: hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}
	if err := h.userRepo.ActivateWithPassword(ctx, inv.UserID, hash); err != nil {
		slog.Error("invite accept: activation failed", "user_id", inv.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		return
	}
	if err := h.employeeRepo.ActivateByUserID(ctx, inv.OrgID, inv.UserID); err != nil {
		// The account works either way; the employee row catches up on the next
		// accept or a manual fix. Log loudly instead of failing the activation.
		slog.Error("invite accept: employee activation failed", "user_id", inv.UserID, "org_id", inv.OrgID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted"})
}
