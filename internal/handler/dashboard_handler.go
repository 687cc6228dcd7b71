package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"shiftsite/internal/dashboard"
	"shiftsite/internal/middleware"
	"shiftsite/internal/models"
)

const (
	adminPath = "/admin"
	loginPath = "/admin/login"
)

type loginPage struct {
	Error   string
	Message string
	Email   string
}

type recoverPage struct {
	Token string
	Error string
}

type dashboardPage struct {
	Email  string
	Toasts []dashboard.Notification
	State  dashboard.State
}

// page is one dashboard round trip: a fresh state machine and the toasts it
// produced while handling the request. Actions render the result directly
// so a failed submit keeps the form contents.
type page struct {
	dash   *dashboard.Dashboard
	toasts *dashboard.Toasts
}

func (h *Handlers) newPage() *page {
	toasts := &dashboard.Toasts{}
	return &page{
		dash:   dashboard.New(h.BlogService, h.AuthService, toasts),
		toasts: toasts,
	}
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := h.newPage()
	ctx := r.Context()

	if err := p.dash.Mount(ctx); err != nil {
		h.Logger.ErrorContext(ctx, "dashboard load failed", slog.String("error", err.Error()))
	}

	if id := r.URL.Query().Get("edit"); id != "" {
		if err := p.dash.EditByID(id); err != nil {
			p.toasts.Notify(dashboard.Notification{Title: "Error", Description: "Post not found", Destructive: true})
		}
	} else if r.URL.Query().Get("new") != "" {
		p.dash.OpenCreate()
	}

	h.renderDashboard(w, r, p)
}

// SubmitPost creates a post, or updates the one named by the "id" field.
func (h *Handlers) SubmitPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	p := h.newPage()
	ctx := r.Context()

	if id := r.PostForm.Get("id"); id != "" {
		post, err := h.BlogService.GetPostByID(ctx, id)
		if err != nil {
			p.toasts.Notify(dashboard.Notification{Title: "Error", Description: "Failed to save blog post", Destructive: true})
			h.finishAction(w, r, p, err)
			return
		}
		p.dash.Edit(*post)
	} else {
		p.dash.OpenCreate()
	}

	form := dashboard.Form{
		Title:     strings.TrimSpace(r.PostForm.Get("title")),
		Excerpt:   strings.TrimSpace(r.PostForm.Get("excerpt")),
		Content:   r.PostForm.Get("content"),
		Author:    strings.TrimSpace(r.PostForm.Get("author")),
		Published: r.PostForm.Get("published") == "true",
	}
	if err := p.dash.SetForm(form); err != nil {
		h.finishAction(w, r, p, err)
		return
	}

	h.finishAction(w, r, p, p.dash.Submit(ctx))
}

func (h *Handlers) TogglePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	p := h.newPage()
	current := r.PostForm.Get("current") == "true"

	h.finishAction(w, r, p, p.dash.TogglePublished(r.Context(), chi.URLParam(r, "id"), current))
}

// DeletePostForm only deletes when the browser confirmed the dialog.
func (h *Handlers) DeletePostForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	p := h.newPage()
	confirmed := r.PostForm.Get("confirmed") == "true"

	h.finishAction(w, r, p, p.dash.Delete(r.Context(), chi.URLParam(r, "id"), confirmed))
}

// Logout is reachable without a live access token: once the access cookie
// expires the refresh cookie is the only handle left on the session row.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.AuthService.GetCurrentUser(ctx)
	if user == nil {
		if err := h.AuthService.SignOut(ctx); err != nil {
			h.Logger.ErrorContext(ctx, "sign out failed", slog.String("error", err.Error()))
		}
		h.clearSessionCookies(w)
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	r = r.WithContext(middleware.ContextWithUser(ctx, user))
	p := h.newPage()

	if err := p.dash.SignOut(r.Context()); err != nil {
		h.finishAction(w, r, p, err)
		return
	}

	h.clearSessionCookies(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.AuthService.GetCurrentUser(r.Context()) != nil {
		http.Redirect(w, r, adminPath, http.StatusSeeOther)
		return
	}

	h.render(w, r, http.StatusOK, "admin_login.html", loginPage{})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	session, err := h.AuthService.SignIn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		h.render(w, r, http.StatusUnauthorized, "admin_login.html", loginPage{Error: userMessage(err, "Sign in failed"), Email: email})
		return
	}

	h.setSessionCookies(w, session)
	http.Redirect(w, r, adminPath, http.StatusSeeOther)
}

func (h *Handlers) RequestReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), strings.TrimSpace(r.PostForm.Get("email"))); err != nil {
		h.render(w, r, http.StatusOK, "admin_login.html", loginPage{Error: userMessage(err, "Failed to send reset email")})
		return
	}

	h.render(w, r, http.StatusOK, "admin_login.html", loginPage{Message: resetRequestedMessage})
}

func (h *Handlers) RecoverPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "admin_recover.html", recoverPage{Token: r.URL.Query().Get("token")})
}

func (h *Handlers) Recover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	token := r.PostForm.Get("token")
	if err := h.AuthService.RecoverPassword(r.Context(), token, r.PostForm.Get("password")); err != nil {
		h.render(w, r, http.StatusOK, "admin_recover.html", recoverPage{Token: token, Error: userMessage(err, "Failed to update password")})
		return
	}

	h.clearSessionCookies(w)
	h.render(w, r, http.StatusOK, "admin_login.html", loginPage{Message: "Password updated. Please sign in."})
}

// finishAction makes sure the list is loaded before rendering, since a
// failed or skipped action never reloads it.
func (h *Handlers) finishAction(w http.ResponseWriter, r *http.Request, p *page, err error) {
	if err != nil && !errors.Is(err, dashboard.ErrBusy) {
		h.Logger.InfoContext(r.Context(), "dashboard action failed", slog.String("error", err.Error()))
	}

	if p.dash.State().Loading {
		_ = p.dash.LoadPosts(r.Context())
	}

	h.renderDashboard(w, r, p)
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, p *page) {
	data := dashboardPage{
		Toasts: p.toasts.Drain(),
		State:  p.dash.State(),
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		data.Email = user.Email
	}

	h.render(w, r, http.StatusOK, "admin_dashboard.html", data)
}

// userMessage is the text shown on an HTML page for err. Transport detail
// stays in the logs.
func userMessage(err error, fallback string) string {
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind == models.KindTransport {
		return fallback
	}
	return appErr.Error()
}
