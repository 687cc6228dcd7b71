package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"shiftsite/internal/config"
	"shiftsite/internal/service"
	"shiftsite/internal/web"
)

type Handlers struct {
	BlogService   service.BlogService
	AuthService   service.AuthService
	ImageService  service.ImageService
	HealthService service.HealthService
	Renderer      *web.Renderer
	Cfg           *config.Config
	Validate      *validator.Validate
	Logger        *slog.Logger
}

func NewHandlers(services *service.Service, renderer *web.Renderer, cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handlers{
		BlogService:   services.Blog,
		AuthService:   services.Auth,
		ImageService:  services.Image,
		HealthService: services.Health,
		Renderer:      renderer,
		Cfg:           cfg,
		Validate:      validator.New(),
		Logger:        logger,
	}
}
