package provider

import "context"

type contextKey string

var (
	accessTokenKey  = contextKey("access_token")
	refreshTokenKey = contextKey("refresh_token")
)

// WithAccessToken stores the caller's access token in ctx. The auth service
// reads it back to resolve the current session.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey).(string)
	return token
}

// WithRefreshToken stores the caller's refresh token in ctx so sign-out can
// revoke a session whose access token is already gone.
func WithRefreshToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, refreshTokenKey, token)
}

func RefreshTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(refreshTokenKey).(string)
	return token
}
