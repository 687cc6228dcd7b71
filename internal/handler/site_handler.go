package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftsite/internal/marketing"
	"shiftsite/internal/models"
)

type blogListPage struct {
	Posts []models.BlogPost
	Error string
}

type blogPostPage struct {
	Post   *models.BlogPost
	Images []models.Image
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", marketing.NewPage())
}

func (h *Handlers) BlogList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.BlogService.GetPublishedPosts(r.Context())
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to load published posts", slog.String("error", err.Error()))
		h.render(w, r, http.StatusOK, "blog_list.html", blogListPage{Error: "Failed to load blog posts"})
		return
	}

	h.render(w, r, http.StatusOK, "blog_list.html", blogListPage{Posts: posts})
}

// BlogPost shows a single published post. Drafts and malformed ids are
// plain 404s.
func (h *Handlers) BlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.BlogService.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrValidation) {
			http.NotFound(w, r)
			return
		}
		h.Logger.ErrorContext(r.Context(), "failed to load post",
			slog.String("post_id", id),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Failed to load blog post", http.StatusBadGateway)
		return
	}
	if !post.Published {
		http.NotFound(w, r)
		return
	}

	images, err := h.ImageService.ListImages(r.Context(), id)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "failed to load post images",
			slog.String("post_id", id),
			slog.String("error", err.Error()),
		)
	}

	h.render(w, r, http.StatusOK, "blog_post.html", blogPostPage{Post: post, Images: images})
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, page, data); err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
