package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftsite/internal/metrics"
	"shiftsite/internal/middleware"
)

// RouterDeps holds what NewRouter needs besides the handlers.
type RouterDeps struct {
	Logger            *slog.Logger
	CORSAllowedOrigin string
	HTTPMetrics       metrics.HTTPRecorder
	MetricsHandler    http.Handler
	// AuthLimiter throttles sign-in, sign-up and reset requests per client.
	// Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// NewRouter wires the public site, the admin pages and the JSON API.
//
// Middleware order: Recovery → Logging → SecurityHeaders → CORS → Session.
func NewRouter(h *Handlers, deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := func(next http.Handler) http.Handler { return next }
	if deps.AuthLimiter != nil {
		limit = deps.AuthLimiter.Middleware()
	}
	requireAuth := middleware.RequireAuth(h.AuthService)

	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(logger),
		middleware.Logging(logger, deps.HTTPMetrics),
		middleware.SecurityHeaders(),
		middleware.CORS(deps.CORSAllowedOrigin),
		middleware.Session(),
	)

	r.Get("/health", h.Health)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// public site
	r.Get("/", h.Home)
	r.Get("/blog", h.BlogList)
	r.Get("/blog/{id}", h.BlogPost)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", h.LoginPage)
		r.With(limit).Post("/login", h.Login)
		r.With(limit).Post("/reset-password", h.RequestReset)
		r.Get("/recover", h.RecoverPage)
		r.With(limit).Post("/recover", h.Recover)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.AuthService, loginPath))

			r.Get("/", h.Dashboard)
			r.Post("/posts", h.SubmitPost)
			r.Post("/posts/{id}/toggle", h.TogglePost)
			r.Post("/posts/{id}/delete", h.DeletePostForm)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(limit)

			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.Post("/signout", h.SignOut)
			r.Post("/refresh", h.RefreshSession)
			r.Post("/reset-password", h.ResetPassword)
			r.Post("/recover", h.RecoverPassword)
			r.Get("/user", h.GetCurrentUser)
			r.Get("/session", h.GetCurrentSession)
			r.With(requireAuth).Put("/password", h.UpdatePassword)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/published", h.ListPublishedPosts)
			r.Get("/{id}", h.GetPost)
			r.Get("/{id}/images", h.ListImages)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Get("/", h.ListPosts)
				r.Post("/", h.CreatePost)
				r.Patch("/{id}", h.UpdatePost)
				r.Delete("/{id}", h.DeletePost)
				r.Patch("/{id}/published", h.SetPublished)
				r.Post("/{id}/images", h.UploadImage)
				r.Delete("/{id}/images/{imageID}", h.DeleteImage)
			})
		})
	})

	return r
}
