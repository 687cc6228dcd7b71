package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shiftsite/internal/models"
)

type PublishedRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// ListPosts returns every post, drafts included, newest first.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.BlogService.GetAllPosts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) ListPublishedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.BlogService.GetPublishedPosts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

// GetPost hides drafts from anonymous callers.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.BlogService.GetPostByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if !post.Published && h.AuthService.GetCurrentUser(r.Context()) == nil {
		writeError(w, "Error fetching post: post "+id+" not found", http.StatusNotFound)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var draft models.BlogPostDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.BlogService.CreatePost(r.Context(), draft)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch models.BlogPostUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.BlogService.UpdatePost(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.BlogService.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req PublishedRequest
	if !h.decode(w, r, &req) {
		return
	}

	post, err := h.BlogService.TogglePublished(r.Context(), chi.URLParam(r, "id"), *req.Published)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}
