package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shiftsite/internal/models"
)

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.SessionID == "" {
		session.SessionID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO sessions (session_id, user_id, refresh_token, expires_at, created_at)
		VALUES (:session_id, :user_id, :refresh_token, :expires_at, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return classify(err, "")
	}

	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	query := `SELECT * FROM sessions WHERE session_id = $1 AND expires_at > CURRENT_TIMESTAMP`

	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, sessionID); err != nil {
		return nil, classify(err, fmt.Sprintf("session %s not found", sessionID))
	}

	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	query := `SELECT * FROM sessions WHERE refresh_token = $1 AND expires_at > CURRENT_TIMESTAMP`

	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		return nil, classify(err, "refresh token is invalid or expired")
	}

	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM sessions WHERE session_id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return classify(err, "")
	}

	return nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return classify(err, "")
	}

	return nil
}
