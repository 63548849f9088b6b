// token_repository.go implements TokenRepository, persisting one-time credential
// tokens (password reset, invitation). Tokens are stored as SHA-256 hashes and
// consumed exactly once.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/flx-software/asset-admin/internal/db/models"
)

// TokenRepository handles one-time token database operations
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// CreateResetToken stores a password reset token hash
func (r *TokenRepository) CreateResetToken(ctx context.Context, tok *models.PasswordResetToken) error {
	tok.CreatedAt = time.Now()

	query := `
		INSERT INTO password_reset_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, tok.TokenHash, tok.UserID, tok.ExpiresAt, tok.CreatedAt)
	return err
}

// GetResetToken retrieves a password reset token by its hash
func (r *TokenRepository) GetResetToken(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT token_hash, user_id, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`

	tok := &models.PasswordResetToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&tok.TokenHash,
		&tok.UserID,
		&tok.ExpiresAt,
		&tok.UsedAt,
		&tok.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return tok, nil
}

// ConsumeResetToken marks a reset token used. Returns false when the token was
// already used, so concurrent redemptions cannot both succeed.
func (r *TokenRepository) ConsumeResetToken(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		UPDATE password_reset_tokens
		SET used_at = $2
		WHERE token_hash = $1 AND used_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, tokenHash, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreateInvitation stores an invitation token hash
func (r *TokenRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	inv.CreatedAt = time.Now()

	query := `
		INSERT INTO invitations (token_hash, user_id, org_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, inv.TokenHash, inv.UserID, inv.OrgID, inv.ExpiresAt, inv.CreatedAt)
	return err
}

// CreateInvitationTx stores an invitation token hash inside an existing transaction
func (r *TokenRepository) CreateInvitationTx(ctx context.Context, tx *sql.Tx, inv *models.Invitation) error {
	inv.CreatedAt = time.Now()

	query := `
		INSERT INTO invitations (token_hash, user_id, org_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, inv.TokenHash, inv.UserID, inv.OrgID, inv.ExpiresAt, inv.CreatedAt)
	return err
}

// GetInvitation retrieves an invitation by its token hash
func (r *TokenRepository) GetInvitation(ctx context.Context, tokenHash string) (*models.Invitation, error) {
	query := `
		SELECT token_hash, user_id, org_id, expires_at, accepted_at, created_at
		FROM invitations
		WHERE token_hash = $1
	`

	inv := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&inv.TokenHash,
		&inv.UserID,
		&inv.OrgID,
		&inv.ExpiresAt,
		&inv.AcceptedAt,
		&inv.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return inv, nil
}

// AcceptInvitation marks an invitation accepted. Returns false when it was
// already accepted.
func (r *TokenRepository) AcceptInvitation(ctx context.Context, tokenHash string) (bool, error) {
	query := `
		UPDATE invitations
		SET accepted_at = $2
		WHERE token_hash = $1 AND accepted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, tokenHash, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
