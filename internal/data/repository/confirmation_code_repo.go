package repository

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConfirmationCodeRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	FindLatestValid(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error)
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	InvalidateAll(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type confirmationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationCodeRepository(db database.PgxIface, log *zap.Logger) ConfirmationCodeRepository {
	return &confirmationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

func (r *confirmationCodeRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for user %s: %w", code.UserID.String(), err)
	}

	return nil
}

// FindLatestValid returns the newest unused, unexpired code issued to userID.
func (r *confirmationCodeRepository) FindLatestValid(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, used_at, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&code.ID,
		&code.UserID,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.UsedAt,
		&code.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find confirmation code for user %s: %w", userID.String(), err)
	}

	return &code, nil
}

func (r *confirmationCodeRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE confirmation_codes SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("mark confirmation code %s used: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark confirmation code %s used: %w", id.String(), ErrNotFound)
	}

	return nil
}

// InvalidateAll marks every outstanding code of userID as used.
func (r *confirmationCodeRepository) InvalidateAll(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE confirmation_codes SET used_at = NOW() WHERE user_id = $1 AND used_at IS NULL`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.log.Error("Failed to invalidate confirmation codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate confirmation codes for user %s: %w", userID.String(), err)
	}

	return nil
}

func (r *confirmationCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM confirmation_codes WHERE expires_at < NOW() OR used_at IS NOT NULL`

	result, err := r.db.Exec(ctx, query)
	if err != nil {
		r.log.Error("Failed to delete expired confirmation codes", zap.Error(err))
		return 0, fmt.Errorf("delete expired confirmation codes: %w", err)
	}

	return result.RowsAffected(), nil
}
