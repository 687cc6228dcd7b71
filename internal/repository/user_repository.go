package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"shiftsite/internal/models"
)

const invalidCredentials = "Invalid login credentials"

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (user_id, email, password_hash, created_at, updated_at)
		VALUES (:user_id, :email, :password_hash, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		err = classify(err, "")
		if errors.Is(err, models.ErrConflict) {
			return models.NewError(models.KindConflict, "User already registered", err)
		}
		return err
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &user, query, userID); err != nil {
		return nil, classify(err, fmt.Sprintf("user %s not found", userID))
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, classify(err, fmt.Sprintf("user with email %s not found", email))
	}

	return &user, nil
}

// VerifyPassword reports the same error for an unknown email and a wrong
// password.
func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.UnauthorizedError(invalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.UnauthorizedError(invalidCredentials)
	}

	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE user_id = $3`

	result, err := r.db.ExecContext(ctx, query, string(hashedPassword), time.Now().UTC(), userID)
	if err != nil {
		return classify(err, "")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NotFoundError(fmt.Sprintf("user %s not found", userID))
	}

	return nil
}
