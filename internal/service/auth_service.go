package service

import (
	"context"
	"log/slog"

	"shiftsite/internal/metrics"
	"shiftsite/internal/models"
	"shiftsite/internal/provider"
)

// AuthService is the session facade used by handlers and the dashboard.
// The caller's access token travels in ctx (see provider.WithAccessToken).
type AuthService interface {
	GetCurrentUser(ctx context.Context) *models.User
	GetCurrentSession(ctx context.Context) *models.Session
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	RecoverPassword(ctx context.Context, token, password string) error
}

type authService struct {
	client  provider.AuthClient
	metrics metrics.Recorder
	logger  *slog.Logger
}

func NewAuthService(client provider.AuthClient, recorder metrics.Recorder, logger *slog.Logger) AuthService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authService{
		client:  client,
		metrics: recorder,
		logger:  logger,
	}
}

// GetCurrentUser returns nil when there is no valid session.
func (s *authService) GetCurrentUser(ctx context.Context) *models.User {
	token := provider.AccessTokenFromContext(ctx)
	if token == "" {
		return nil
	}

	user, err := s.client.GetUser(ctx, token)
	if err != nil {
		s.logger.DebugContext(ctx, "no current user", slog.String("error", err.Error()))
		return nil
	}

	return user
}

// GetCurrentSession returns nil when there is no valid session.
func (s *authService) GetCurrentSession(ctx context.Context) *models.Session {
	token := provider.AccessTokenFromContext(ctx)
	if token == "" {
		return nil
	}

	session, err := s.client.GetSession(ctx, token)
	if err != nil {
		s.logger.DebugContext(ctx, "no current session", slog.String("error", err.Error()))
		return nil
	}

	return session
}

func (s *authService) SignIn(ctx context.Context, email, password string) (session *models.Session, err error) {
	defer s.record("SignIn", &err)

	session, err = s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.InfoContext(ctx, "sign in failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "signed in", slog.String("user_id", session.UserID))

	return session, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (session *models.Session, err error) {
	defer s.record("SignUp", &err)

	session, err = s.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *authService) SignOut(ctx context.Context) (err error) {
	defer s.record("SignOut", &err)

	return s.client.SignOut(ctx, provider.AccessTokenFromContext(ctx), provider.RefreshTokenFromContext(ctx))
}

func (s *authService) ResetPassword(ctx context.Context, email string) (err error) {
	defer s.record("ResetPassword", &err)

	return s.client.ResetPasswordForEmail(ctx, email, "")
}

func (s *authService) UpdatePassword(ctx context.Context, password string) (err error) {
	defer s.record("UpdatePassword", &err)

	token := provider.AccessTokenFromContext(ctx)
	if token == "" {
		return models.UnauthorizedError("Auth session missing")
	}

	_, err = s.client.UpdateUser(ctx, token, password)
	return err
}

func (s *authService) RefreshSession(ctx context.Context, refreshToken string) (session *models.Session, err error) {
	defer s.record("RefreshSession", &err)

	return s.client.RefreshSession(ctx, refreshToken)
}

func (s *authService) RecoverPassword(ctx context.Context, token, password string) (err error) {
	defer s.record("RecoverPassword", &err)

	return s.client.RecoverPassword(ctx, token, password)
}

func (s *authService) record(operation string, err *error) {
	s.metrics.RecordOperation("auth", operation, *err)
}
