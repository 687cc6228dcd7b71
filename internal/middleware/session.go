package middleware

import (
	"context"
	"net/http"
	"strings"

	"shiftsite/internal/models"
	"shiftsite/internal/provider"
)

const (
	AccessTokenCookie  = "shift_access_token"
	RefreshTokenCookie = "shift_refresh_token"
)

// CurrentUser is the part of the auth service the guards need.
type CurrentUser interface {
	GetCurrentUser(ctx context.Context) *models.User
}

type userContextKey struct{}

// Session copies the caller's tokens into the request context. The
// Authorization header wins over the access cookie. It never rejects a
// request.
func Session() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if token := accessToken(r); token != "" {
				ctx = provider.WithAccessToken(ctx, token)
			}
			if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
				ctx = provider.WithRefreshToken(ctx, cookie.Value)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 JSON when there is no valid session.
func RequireAuth(auth CurrentUser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetCurrentUser(r.Context())
			if user == nil {
				writeError(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin redirects to the login page when there is no valid session.
func RequireAdmin(auth CurrentUser, loginPath string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetCurrentUser(r.Context())
			if user == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the user a guard resolved, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey{}).(*models.User)
	return user
}

func accessToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
