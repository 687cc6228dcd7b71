package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"shiftsite/internal/models"
)

type recoveryRepository struct {
	db *sqlx.DB
}

func NewRecoveryRepository(db *sqlx.DB) RecoveryRepository {
	return &recoveryRepository{db: db}
}

func (r *recoveryRepository) Create(ctx context.Context, token *models.RecoveryToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO recovery_tokens (token_hash, user_id, expires_at, created_at)
		VALUES (:token_hash, :user_id, :expires_at, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return classify(err, "")
	}

	return nil
}

// Consume deletes the token and returns it, so a recovery link works once.
func (r *recoveryRepository) Consume(ctx context.Context, tokenHash string) (*models.RecoveryToken, error) {
	query := `DELETE FROM recovery_tokens WHERE token_hash = $1 AND expires_at > CURRENT_TIMESTAMP RETURNING *`

	var token models.RecoveryToken
	if err := r.db.GetContext(ctx, &token, query, tokenHash); err != nil {
		return nil, classify(err, "Token has expired or is invalid")
	}

	return &token, nil
}
