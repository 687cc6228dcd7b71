package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"shiftsite/internal/metrics"
	"shiftsite/internal/models"
	"shiftsite/internal/repository"
	"shiftsite/internal/storage"
)

const (
	opUploadImage = "Error uploading image"
	opListImages  = "Error fetching images"
	opDeleteImage = "Error deleting image"
)

// ImageService manages pictures attached to blog posts.
type ImageService interface {
	UploadImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (*models.Image, error)
	ListImages(ctx context.Context, postID string) ([]models.Image, error)
	DeleteImage(ctx context.Context, postID, imageID string) error
}

type imageService struct {
	blogRepo  repository.BlogRepository
	imageRepo repository.ImageRepository
	storage   storage.Storage
	metrics   metrics.Recorder
	logger    *slog.Logger
}

func NewImageService(blogRepo repository.BlogRepository, imageRepo repository.ImageRepository, store storage.Storage, recorder metrics.Recorder, logger *slog.Logger) ImageService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &imageService{
		blogRepo:  blogRepo,
		imageRepo: imageRepo,
		storage:   store,
		metrics:   recorder,
		logger:    logger,
	}
}

func (s *imageService) UploadImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (image *models.Image, err error) {
	defer s.record("UploadImage", &err)

	if err := checkID(postID); err != nil {
		return nil, models.WithOp(opUploadImage, err)
	}
	if _, err := s.blogRepo.GetByID(ctx, postID); err != nil {
		return nil, models.WithOp(opUploadImage, err)
	}

	object, err := s.storage.UploadImage(ctx, postID, fileName, file, size)
	if err != nil {
		return nil, models.WithOp(opUploadImage, models.NewError(models.KindTransport, err.Error(), err))
	}

	if !strings.HasPrefix(object.ContentType, "image/") {
		s.removeObject(ctx, object.Name)
		return nil, models.WithOp(opUploadImage, models.ValidationError("unsupported file type "+object.ContentType))
	}

	image = &models.Image{
		PostID:      postID,
		ObjectName:  object.Name,
		ImageURL:    object.URL,
		ContentType: object.ContentType,
		Size:        object.Size,
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		s.removeObject(ctx, object.Name)
		return nil, models.WithOp(opUploadImage, err)
	}

	return image, nil
}

func (s *imageService) ListImages(ctx context.Context, postID string) (images []models.Image, err error) {
	defer s.record("ListImages", &err)

	if err := checkID(postID); err != nil {
		return nil, models.WithOp(opListImages, err)
	}

	images, err = s.imageRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, models.WithOp(opListImages, err)
	}

	return images, nil
}

// DeleteImage removes the row first; a leftover object in the bucket is
// only logged.
func (s *imageService) DeleteImage(ctx context.Context, postID, imageID string) (err error) {
	defer s.record("DeleteImage", &err)

	image, err := s.imageRepo.GetByImageID(ctx, imageID)
	if err != nil {
		return models.WithOp(opDeleteImage, err)
	}
	if image.PostID != postID {
		return models.WithOp(opDeleteImage, models.NotFoundError("image "+imageID+" not found"))
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return models.WithOp(opDeleteImage, err)
	}

	s.removeObject(ctx, image.ObjectName)

	return nil
}

func (s *imageService) removeObject(ctx context.Context, objectName string) {
	removeObject(ctx, s.storage, s.logger, objectName)
}

// removeObject only logs failures: the database no longer points at the
// object, so a leftover costs storage and nothing else.
func removeObject(ctx context.Context, store storage.Storage, logger *slog.Logger, objectName string) {
	if err := store.DeleteImage(ctx, objectName); err != nil {
		logger.WarnContext(ctx, "failed to remove object from storage",
			slog.String("object", objectName),
			slog.String("error", err.Error()),
		)
	}
}

func (s *imageService) record(operation string, err *error) {
	s.metrics.RecordOperation("image", operation, *err)
}
