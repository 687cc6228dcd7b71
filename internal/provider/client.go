// Package provider is the hosted-backend adapter: password accounts,
// revocable sessions and password recovery on top of PostgreSQL.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"shiftsite/internal/config"
	"shiftsite/internal/models"
	"shiftsite/internal/repository"
)

type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken, refreshToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdateUser(ctx context.Context, accessToken, password string) (*models.User, error)
	GetUser(ctx context.Context, accessToken string) (*models.User, error)
	GetSession(ctx context.Context, accessToken string) (*models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error)
	RecoverPassword(ctx context.Context, token, password string) error
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type Client struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	recovery repository.RecoveryRepository
	mailer   Mailer
	tokens   *tokenIssuer
	cfg      config.Auth
	siteURL  string
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Client)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(repo *repository.Repository, mailer Mailer, cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		users:    repo.User,
		sessions: repo.Session,
		recovery: repo.Recovery,
		mailer:   mailer,
		tokens:   newTokenIssuer(cfg.Auth.JWTSecretKey, cfg.Auth.AccessTokenDuration),
		cfg:      cfg.Auth,
		siteURL:  strings.TrimSuffix(cfg.SiteURL, "/"),
		validate: validator.New(),
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)

	if err := c.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, models.UnauthorizedError(invalidCredentials)
	}

	user, err := c.users.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return c.startSession(ctx, user)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)

	if err := c.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return nil, models.NewError(models.KindValidation, "Unable to validate email address: invalid format", err)
	}
	if err := c.checkPassword(password); err != nil {
		return nil, err
	}

	user := &models.User{Email: email}
	if err := c.users.CreateUser(ctx, user, password); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "user registered", slog.String("user_id", user.UserID))

	return c.startSession(ctx, user)
}

// SignOut revokes the session behind accessToken, expired or not, and the
// one behind refreshToken. Browsers drop the access cookie once it expires,
// so the refresh token is often the only handle left. Unknown or invalid
// tokens are not an error.
func (c *Client) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	revoked := ""

	if accessToken != "" {
		if claims, err := c.tokens.parseSignature(accessToken); err == nil {
			if err := c.sessions.Delete(ctx, claims.SessionID); err != nil {
				return err
			}
			revoked = claims.SessionID
		}
	}

	if refreshToken == "" {
		return nil
	}

	session, err := c.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}
	if session.SessionID == revoked {
		return nil
	}

	return c.sessions.Delete(ctx, session.SessionID)
}

// ResetPasswordForEmail mails a one-time recovery link. Unknown addresses
// succeed silently so the endpoint cannot be used to enumerate accounts.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	email = normalizeEmail(email)

	if err := c.validate.Var(email, "required,email"); err != nil {
		return models.NewError(models.KindValidation, "Unable to validate email address: invalid format", err)
	}

	user, err := c.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.logger.DebugContext(ctx, "recovery requested for unknown email")
			return nil
		}
		return err
	}

	raw, err := randomToken()
	if err != nil {
		return err
	}

	now := c.now().UTC()
	token := &models.RecoveryToken{
		TokenHash: hashToken(raw),
		UserID:    user.UserID,
		ExpiresAt: now.Add(c.cfg.RecoveryDuration),
		CreatedAt: now,
	}
	if err := c.recovery.Create(ctx, token); err != nil {
		return err
	}

	link, err := c.recoveryLink(redirectTo, raw)
	if err != nil {
		return err
	}

	if err := c.mailer.SendRecovery(ctx, user.Email, link); err != nil {
		return models.NewError(models.KindTransport, "Error sending recovery email", err)
	}

	return nil
}

func (c *Client) UpdateUser(ctx context.Context, accessToken, password string) (*models.User, error) {
	session, err := c.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	if err := c.checkPassword(password); err != nil {
		return nil, err
	}

	if err := c.users.UpdatePassword(ctx, session.UserID, password); err != nil {
		return nil, err
	}

	return c.users.GetUserByID(ctx, session.UserID)
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	session, err := c.GetSession(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return session.User, nil
}

// GetSession resolves an access token to its live session. A token whose
// session row was deleted is rejected even if its signature is still valid.
func (c *Client) GetSession(ctx context.Context, accessToken string) (*models.Session, error) {
	if accessToken == "" {
		return nil, models.UnauthorizedError("Auth session missing")
	}

	claims, err := c.tokens.parse(accessToken, c.now())
	if err != nil {
		return nil, err
	}

	session, err := c.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.UnauthorizedError("Invalid or expired session")
		}
		return nil, err
	}

	user, err := c.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.UnauthorizedError("Invalid or expired session")
		}
		return nil, err
	}

	session.AccessToken = accessToken
	session.TokenExpiry = claims.ExpiresAt.Time
	session.User = user

	return session, nil
}

// RefreshSession rotates both tokens. The old refresh token stops working.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, models.UnauthorizedError("Invalid Refresh Token: Refresh Token Not Found")
	}

	old, err := c.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.UnauthorizedError("Invalid Refresh Token: Refresh Token Not Found")
		}
		return nil, err
	}

	user, err := c.users.GetUserByID(ctx, old.UserID)
	if err != nil {
		return nil, err
	}

	if err := c.sessions.Delete(ctx, old.SessionID); err != nil {
		return nil, err
	}

	return c.startSession(ctx, user)
}

// RecoverPassword completes the emailed recovery flow and signs the user
// out everywhere.
func (c *Client) RecoverPassword(ctx context.Context, token, password string) error {
	if err := c.checkPassword(password); err != nil {
		return err
	}

	recovery, err := c.recovery.Consume(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.UnauthorizedError("Token has expired or is invalid")
		}
		return err
	}

	if err := c.users.UpdatePassword(ctx, recovery.UserID, password); err != nil {
		return err
	}

	return c.sessions.DeleteByUserID(ctx, recovery.UserID)
}

func (c *Client) startSession(ctx context.Context, user *models.User) (*models.Session, error) {
	refreshToken, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	session := &models.Session{
		UserID:       user.UserID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(c.cfg.RefreshTokenDuration),
		CreatedAt:    now,
	}

	if err := c.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, expiry, err := c.tokens.issue(user, session.SessionID, now)
	if err != nil {
		return nil, err
	}

	session.AccessToken = accessToken
	session.TokenExpiry = expiry
	session.User = user

	return session, nil
}

// bcrypt refuses anything longer.
const maxPasswordBytes = 72

func (c *Client) checkPassword(password string) error {
	if len(password) < c.cfg.MinPasswordLength {
		return models.ValidationError(fmt.Sprintf("Password should be at least %d characters", c.cfg.MinPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return models.ValidationError(fmt.Sprintf("Password should be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func (c *Client) recoveryLink(redirectTo, token string) (string, error) {
	if redirectTo == "" {
		redirectTo = c.siteURL + "/admin/recover"
	}

	u, err := url.Parse(redirectTo)
	if err != nil {
		return "", models.NewError(models.KindValidation, "Invalid redirect URL", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

const invalidCredentials = "Invalid login credentials"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
