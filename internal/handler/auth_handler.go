package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"shiftsite/internal/middleware"
	"shiftsite/internal/models"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type PasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type RecoverRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User *models.User `json:"user"`
}

type SessionResponse struct {
	Session *models.Session `json:"session"`
}

const resetRequestedMessage = "If an account exists for that email, a password reset link has been sent"

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	writeSuccess(w, session, http.StatusCreated)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	writeSuccess(w, session, http.StatusOK)
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.SignOut(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.clearSessionCookies(w)
	writeSuccess(w, MessageResponse{Message: "Signed out"}, http.StatusOK)
}

// RefreshSession takes the refresh token from the body, falling back to
// the refresh cookie.
func (h *Handlers) RefreshSession(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		writeError(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	writeSuccess(w, session, http.StatusOK)
}

// ResetPassword answers the same way whether or not the account exists.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: resetRequestedMessage}, http.StatusOK)
}

func (h *Handlers) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req RecoverRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.AuthService.RecoverPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.clearSessionCookies(w)
	writeSuccess(w, MessageResponse{Message: "Password updated"}, http.StatusOK)
}

func (h *Handlers) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.AuthService.UpdatePassword(r.Context(), req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Password updated"}, http.StatusOK)
}

// GetCurrentUser answers {"user": null} when there is no session.
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, UserResponse{User: h.AuthService.GetCurrentUser(r.Context())}, http.StatusOK)
}

func (h *Handlers) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, SessionResponse{Session: h.AuthService.GetCurrentSession(r.Context())}, http.StatusOK)
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	if err := h.Validate.Struct(dst); err != nil {
		writeError(w, "Missing required fields", http.StatusBadRequest)
		return false
	}

	return true
}

func (h *Handlers) setSessionCookies(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, session.AccessToken, session.TokenExpiry))
	http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, session.RefreshToken, session.ExpiresAt))
}

func (h *Handlers) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		c := h.cookie(name, "", time.Unix(0, 0))
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *Handlers) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.Cfg.Auth.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
