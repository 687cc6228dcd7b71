package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"shiftsite/internal/config"
)

type Storage interface {
	UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*Object, error)
	DeleteImage(ctx context.Context, objectName string) error
}

// Object describes an uploaded file.
type Object struct {
	Name        string
	URL         string
	ContentType string
	Size        int64
}

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось инициализировать MinIO: %w", err)
	}

	return &MinIOClient{
		client:    client,
		bucket:    cfg.MinIO.BucketName,
		region:    cfg.MinIO.Region,
		publicURL: publicBaseURL(cfg.MinIO),
	}, nil
}

// EnsureBucket creates the bucket on first start and makes its objects
// publicly readable, since image URLs are embedded in blog pages.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}

	if err := m.client.SetBucketPolicy(ctx, m.bucket, readOnlyPolicy(m.bucket)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	slog.Info("бакет создан", slog.String("bucket", m.bucket))

	return nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, postID string, fileName string, file io.Reader, size int64) (*Object, error) {
	now := time.Now().UTC()
	objectName, contentType := objectNameFor(postID, fileName, now, uuid.New().String())

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"post-id":           postID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return nil, fmt.Errorf("ошибка при загрузке в MinIO: %w", err)
	}

	return &Object{
		Name:        objectName,
		URL:         m.publicURL + "/" + m.bucket + "/" + objectName,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка при удалении из MinIO: %w", err)
	}
	return nil
}

// objectNameFor lays objects out as posts/<post>/<yyyy>/<mm>/<id><ext>.
// Files without an extension are stored as .jpg.
func objectNameFor(postID, fileName string, now time.Time, id string) (string, string) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	name := fmt.Sprintf("posts/%s/%d/%02d/%s%s", postID, now.Year(), now.Month(), id, ext)

	return name, contentType
}

func publicBaseURL(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

func readOnlyPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}
