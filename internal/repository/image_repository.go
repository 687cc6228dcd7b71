package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"shiftsite/internal/models"
)

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (image_id, post_id, object_name, image_url, content_type, size, created_at)
		VALUES (:image_id, :post_id, :object_name, :image_url, :content_type, :size, :created_at)
	`

	if image.ImageID == "" {
		image.ImageID = uuid.New().String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, image); err != nil {
		return classify(err, "")
	}

	return nil
}

func (r *imageRepository) GetByImageID(ctx context.Context, imageID string) (*models.Image, error) {
	query := `SELECT * FROM images WHERE image_id = $1`

	var image models.Image
	if err := r.db.GetContext(ctx, &image, query, imageID); err != nil {
		return nil, classify(err, fmt.Sprintf("image %s not found", imageID))
	}

	return &image, nil
}

func (r *imageRepository) GetByPostID(ctx context.Context, postID string) ([]models.Image, error) {
	query := `SELECT * FROM images WHERE post_id = $1 ORDER BY created_at`

	images := []models.Image{}
	if err := r.db.SelectContext(ctx, &images, query, postID); err != nil {
		return nil, classify(err, "")
	}

	return images, nil
}

func (r *imageRepository) Delete(ctx context.Context, imageID string) error {
	query := `DELETE FROM images WHERE image_id = $1`

	result, err := r.db.ExecContext(ctx, query, imageID)
	if err != nil {
		return classify(err, "")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return models.NotFoundError(fmt.Sprintf("image %s not found", imageID))
	}

	return nil
}
