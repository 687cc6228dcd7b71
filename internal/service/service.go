package service

import (
	"log/slog"

	"shiftsite/internal/metrics"
	"shiftsite/internal/provider"
	"shiftsite/internal/repository"
	"shiftsite/internal/storage"
)

type Service struct {
	Blog   BlogService
	Auth   AuthService
	Image  ImageService
	Health HealthService
}

func NewService(rep *repository.Repository, db Pinger, auth provider.AuthClient, store storage.Storage, recorder metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		Blog:   NewBlogService(rep.Blog, rep.Image, store, recorder, logger),
		Auth:   NewAuthService(auth, recorder, logger),
		Image:  NewImageService(rep.Blog, rep.Image, store, recorder, logger),
		Health: NewHealthService(db, rep.Tables),
	}
}
