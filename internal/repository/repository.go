package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"shiftsite/internal/models"
)

type BlogRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, id string, patch models.BlogPostUpdate, updatedAt time.Time) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, password string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type RecoveryRepository interface {
	Create(ctx context.Context, token *models.RecoveryToken) error
	Consume(ctx context.Context, tokenHash string) (*models.RecoveryToken, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByImageID(ctx context.Context, imageID string) (*models.Image, error)
	GetByPostID(ctx context.Context, postID string) ([]models.Image, error)
	Delete(ctx context.Context, imageID string) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	Blog     BlogRepository
	User     UserRepository
	Session  SessionRepository
	Recovery RecoveryRepository
	Image    ImageRepository
	Tables   TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Blog:     NewBlogRepository(db),
		User:     NewUserRepository(db),
		Session:  NewSessionRepository(db),
		Recovery: NewRecoveryRepository(db),
		Image:    NewImageRepository(db),
		Tables:   NewTablesRepository(db),
	}
}
