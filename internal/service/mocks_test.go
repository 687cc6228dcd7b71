package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"shiftsite/internal/models"
	"shiftsite/internal/storage"
)

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) List(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	args := m.Called(ctx, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) Update(ctx context.Context, id string, patch models.BlogPostUpdate, updatedAt time.Time) (*models.BlogPost, error) {
	args := m.Called(ctx, id, patch, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// memoryBlogRepository mirrors the SQL semantics of the real repository:
// newest first, and updated_at = max(now, previous + 1µs).
type memoryBlogRepository struct {
	mu    sync.Mutex
	posts map[string]models.BlogPost
}

func newMemoryBlogRepository() *memoryBlogRepository {
	return &memoryBlogRepository{posts: make(map[string]models.BlogPost)}
}

func (r *memoryBlogRepository) List(_ context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := []models.BlogPost{}
	for _, p := range r.posts {
		if publishedOnly && !p.Published {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })

	return posts, nil
}

func (r *memoryBlogRepository) GetByID(_ context.Context, id string) (*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, models.NotFoundError("post " + id + " not found")
	}
	return &p, nil
}

func (r *memoryBlogRepository) Create(_ context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[post.ID] = *post
	stored := *post
	return &stored, nil
}

func (r *memoryBlogRepository) Update(_ context.Context, id string, patch models.BlogPostUpdate, updatedAt time.Time) (*models.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, models.NotFoundError("post " + id + " not found")
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}

	next := p.UpdatedAt.Add(time.Microsecond)
	if updatedAt.After(next) {
		next = updatedAt
	}
	p.UpdatedAt = next

	r.posts[id] = p
	return &p, nil
}

func (r *memoryBlogRepository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return 0, nil
	}
	delete(r.posts, id)
	return 1, nil
}

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	args := m.Called(ctx, email, redirectTo)
	return args.Error(0)
}

func (m *MockAuthClient) UpdateUser(ctx context.Context, accessToken, password string) (*models.User, error) {
	args := m.Called(ctx, accessToken, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthClient) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthClient) GetSession(ctx context.Context, accessToken string) (*models.Session, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthClient) RecoverPassword(ctx context.Context, token, password string) error {
	args := m.Called(ctx, token, password)
	return args.Error(0)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) GetByImageID(ctx context.Context, imageID string) (*models.Image, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockImageRepository) GetByPostID(ctx context.Context, postID string) ([]models.Image, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *MockImageRepository) Delete(ctx context.Context, imageID string) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*storage.Object, error) {
	args := m.Called(ctx, postID, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type recordedOperation struct {
	service, operation string
	err                error
}

type spyRecorder struct {
	mu  sync.Mutex
	ops []recordedOperation
}

func (s *spyRecorder) RecordOperation(service, operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, recordedOperation{service, operation, err})
}
