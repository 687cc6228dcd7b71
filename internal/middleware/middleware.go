// Package middleware holds the HTTP middleware shared by the API and the
// HTML pages.
package middleware

import (
	"encoding/json"
	"net/http"
)

type Middleware func(http.Handler) http.Handler

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
