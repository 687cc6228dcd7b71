package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shiftsite/internal/models"
)

type blogRepository struct {
	db *sqlx.DB
}

func NewBlogRepository(db *sqlx.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) List(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	query := `SELECT * FROM blogs ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT * FROM blogs WHERE published = true ORDER BY created_at DESC`
	}

	posts := []models.BlogPost{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, classify(err, "no posts")
	}

	return posts, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	query := `SELECT * FROM blogs WHERE id = $1`

	var post models.BlogPost
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, classify(err, fmt.Sprintf("post %s not found", id))
	}

	return &post, nil
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	query := `
		INSERT INTO blogs (id, title, excerpt, content, author, date, published, created_at, updated_at)
		VALUES (:id, :title, :excerpt, :content, :author, :date, :published, :created_at, :updated_at)
		RETURNING *
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	bound, args, err := r.db.BindNamed(query, post)
	if err != nil {
		return nil, fmt.Errorf("bind insert: %w", err)
	}

	var created models.BlogPost
	if err := r.db.GetContext(ctx, &created, bound, args...); err != nil {
		return nil, classify(err, "post was not returned after insert")
	}

	return &created, nil
}

// Update writes the non-nil fields of patch. updated_at never moves
// backwards and always advances by at least one microsecond.
func (r *blogRepository) Update(ctx context.Context, id string, patch models.BlogPostUpdate, updatedAt time.Time) (*models.BlogPost, error) {
	var (
		sets []string
		args []interface{}
	)

	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Excerpt != nil {
		set("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Author != nil {
		set("author", *patch.Author)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Published != nil {
		set("published", *patch.Published)
	}

	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d, updated_at + interval '1 microsecond')", len(args)))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE blogs SET %s WHERE id = $%d RETURNING *", strings.Join(sets, ", "), len(args))

	var post models.BlogPost
	if err := r.db.GetContext(ctx, &post, query, args...); err != nil {
		return nil, classify(err, fmt.Sprintf("post %s not found", id))
	}

	return &post, nil
}

// Delete removes the row and reports how many rows matched.
func (r *blogRepository) Delete(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM blogs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, classify(err, "")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check deleted rows: %w", err)
	}

	return rowsAffected, nil
}
