package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"shiftsite/internal/metrics"
	"shiftsite/internal/models"
	"shiftsite/internal/repository"
	"shiftsite/internal/storage"
)

const (
	opFetchPosts          = "Error fetching posts"
	opFetchPublishedPosts = "Error fetching published posts"
	opFetchPost           = "Error fetching post"
	opCreatePost          = "Error creating post"
	opUpdatePost          = "Error updating post"
	opDeletePost          = "Error deleting post"
	opUpdatePostStatus    = "Error updating post status"
)

type BlogService interface {
	GetAllPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPublishedPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPostByID(ctx context.Context, id string) (*models.BlogPost, error)
	CreatePost(ctx context.Context, draft models.BlogPostDraft) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id string, patch models.BlogPostUpdate) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	TogglePublished(ctx context.Context, id string, published bool) (*models.BlogPost, error)
}

type blogService struct {
	blogRepo  repository.BlogRepository
	imageRepo repository.ImageRepository
	storage   storage.Storage
	validate  *validator.Validate
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

func NewBlogService(blogRepo repository.BlogRepository, imageRepo repository.ImageRepository, store storage.Storage, recorder metrics.Recorder, logger *slog.Logger) BlogService {
	return newBlogService(blogRepo, imageRepo, store, recorder, logger, time.Now)
}

func newBlogService(blogRepo repository.BlogRepository, imageRepo repository.ImageRepository, store storage.Storage, recorder metrics.Recorder, logger *slog.Logger, now func() time.Time) *blogService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &blogService{
		blogRepo:  blogRepo,
		imageRepo: imageRepo,
		storage:   store,
		validate:  validator.New(),
		metrics:   recorder,
		logger:    logger,
		now:       now,
	}
}

func (s *blogService) GetAllPosts(ctx context.Context) (posts []models.BlogPost, err error) {
	defer s.record("GetAllPosts", &err)

	posts, err = s.blogRepo.List(ctx, false)
	if err != nil {
		return nil, models.WithOp(opFetchPosts, err)
	}

	return posts, nil
}

func (s *blogService) GetPublishedPosts(ctx context.Context) (posts []models.BlogPost, err error) {
	defer s.record("GetPublishedPosts", &err)

	posts, err = s.blogRepo.List(ctx, true)
	if err != nil {
		return nil, models.WithOp(opFetchPublishedPosts, err)
	}

	return posts, nil
}

func (s *blogService) GetPostByID(ctx context.Context, id string) (post *models.BlogPost, err error) {
	defer s.record("GetPostByID", &err)

	if err := checkID(id); err != nil {
		return nil, models.WithOp(opFetchPost, err)
	}

	post, err = s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.WithOp(opFetchPost, err)
	}

	return post, nil
}

// CreatePost stores a new post. created_at and updated_at are the same
// instant, truncated to the database's microsecond precision.
func (s *blogService) CreatePost(ctx context.Context, draft models.BlogPostDraft) (post *models.BlogPost, err error) {
	defer s.record("CreatePost", &err)

	if err := s.validate.Struct(draft); err != nil {
		return nil, models.WithOp(opCreatePost, models.NewError(models.KindValidation, validationMessage(err), err))
	}

	now := s.timestamp()
	date := draft.Date
	if date.IsZero() {
		date = now
	}

	post, err = s.blogRepo.Create(ctx, &models.BlogPost{
		ID:        uuid.New().String(),
		Title:     draft.Title,
		Excerpt:   draft.Excerpt,
		Content:   draft.Content,
		Author:    draft.Author,
		Date:      date,
		Published: draft.Published,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, models.WithOp(opCreatePost, err)
	}

	s.logger.InfoContext(ctx, "post created", slog.String("post_id", post.ID))

	return post, nil
}

func (s *blogService) UpdatePost(ctx context.Context, id string, patch models.BlogPostUpdate) (post *models.BlogPost, err error) {
	defer s.record("UpdatePost", &err)

	if err := checkID(id); err != nil {
		return nil, models.WithOp(opUpdatePost, err)
	}
	if err := s.validate.Struct(patch); err != nil {
		return nil, models.WithOp(opUpdatePost, models.NewError(models.KindValidation, validationMessage(err), err))
	}

	post, err = s.blogRepo.Update(ctx, id, patch, s.timestamp())
	if err != nil {
		return nil, models.WithOp(opUpdatePost, err)
	}

	return post, nil
}

// DeletePost is a no-op for an id that matches nothing.
func (s *blogService) DeletePost(ctx context.Context, id string) (err error) {
	defer s.record("DeletePost", &err)

	if err := checkID(id); err != nil {
		return models.WithOp(opDeletePost, err)
	}

	// image rows go with the post, the stored objects do not
	images, err := s.imageRepo.GetByPostID(ctx, id)
	if err != nil {
		return models.WithOp(opDeletePost, err)
	}

	deleted, err := s.blogRepo.Delete(ctx, id)
	if err != nil {
		return models.WithOp(opDeletePost, err)
	}

	if deleted == 0 {
		s.logger.DebugContext(ctx, "delete matched no post", slog.String("post_id", id))
		return nil
	}

	for _, image := range images {
		removeObject(ctx, s.storage, s.logger, image.ObjectName)
	}

	s.logger.InfoContext(ctx, "post deleted", slog.String("post_id", id), slog.Int("images", len(images)))

	return nil
}

func (s *blogService) TogglePublished(ctx context.Context, id string, published bool) (post *models.BlogPost, err error) {
	defer s.record("TogglePublished", &err)

	if err := checkID(id); err != nil {
		return nil, models.WithOp(opUpdatePostStatus, err)
	}

	post, err = s.blogRepo.Update(ctx, id, models.BlogPostUpdate{Published: &published}, s.timestamp())
	if err != nil {
		return nil, models.WithOp(opUpdatePostStatus, err)
	}

	return post, nil
}

func (s *blogService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *blogService) record(operation string, err *error) {
	s.metrics.RecordOperation("blog", operation, *err)
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return models.NewError(models.KindValidation, "invalid post id "+id, err)
	}
	return nil
}
