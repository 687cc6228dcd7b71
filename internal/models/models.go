package models

import (
	"time"
)

type BlogPost struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Excerpt   string    `json:"excerpt" db:"excerpt"`
	Content   string    `json:"content" db:"content"`
	Author    string    `json:"author" db:"author"`
	Date      time.Time `json:"date" db:"date"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPostDraft is the payload of a post that has not been stored yet.
type BlogPostDraft struct {
	Title     string    `json:"title" db:"title" validate:"required,max=300"`
	Excerpt   string    `json:"excerpt" db:"excerpt" validate:"required,max=1000"`
	Content   string    `json:"content" db:"content" validate:"required"`
	Author    string    `json:"author" db:"author" validate:"required,max=200"`
	Date      time.Time `json:"date" db:"date"`
	Published bool      `json:"published" db:"published"`
}

// BlogPostUpdate holds a partial update. Nil fields are left untouched.
type BlogPostUpdate struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Excerpt   *string    `json:"excerpt,omitempty" validate:"omitempty,min=1,max=1000"`
	Content   *string    `json:"content,omitempty" validate:"omitempty,min=1"`
	Author    *string    `json:"author,omitempty" validate:"omitempty,min=1,max=200"`
	Date      *time.Time `json:"date,omitempty"`
	Published *bool      `json:"published,omitempty"`
}

type User struct {
	UserID       string    `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session is an issued login. The access token is a signed JWT whose
// "sid" claim points at the stored row, so deleting the row revokes it.
type Session struct {
	SessionID    string    `json:"-" db:"session_id"`
	UserID       string    `json:"-" db:"user_id"`
	RefreshToken string    `json:"refresh_token" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	AccessToken  string    `json:"access_token" db:"-"`
	TokenExpiry  time.Time `json:"access_token_expires_at" db:"-"`
	User         *User     `json:"user" db:"-"`
}

type RecoveryToken struct {
	TokenHash string    `db:"token_hash"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

type Image struct {
	ImageID     string    `json:"imageId" db:"image_id"`
	PostID      string    `json:"postId" db:"post_id"`
	ObjectName  string    `json:"-" db:"object_name"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
