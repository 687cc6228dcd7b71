package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, fmt.Sprintf("File too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024)), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		writeError(w, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return
	}

	image, err := h.ImageService.UploadImage(r.Context(), chi.URLParam(r, "id"), header.Filename, file, header.Size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, image, http.StatusCreated)
}

func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.ImageService.ListImages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, images, http.StatusOK)
}

func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	err := h.ImageService.DeleteImage(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "imageID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
