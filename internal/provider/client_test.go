package provider

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shiftsite/internal/config"
	"shiftsite/internal/logger"
	"shiftsite/internal/models"
	"shiftsite/internal/repository"
)

type clientFixture struct {
	client   *Client
	users    *MockUserRepository
	sessions *MockSessionRepository
	recovery *MockRecoveryRepository
	mailer   *MockMailer
	now      time.Time
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()

	f := &clientFixture{
		users:    new(MockUserRepository),
		sessions: new(MockSessionRepository),
		recovery: new(MockRecoveryRepository),
		mailer:   new(MockMailer),
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	cfg := &config.Config{
		SiteURL: "https://shift.example.com/",
		Auth: config.Auth{
			JWTSecretKey:         "test-secret-key",
			AccessTokenDuration:  time.Hour,
			RefreshTokenDuration: 24 * time.Hour,
			RecoveryDuration:     time.Hour,
			MinPasswordLength:    6,
		},
	}

	repo := &repository.Repository{User: f.users, Session: f.sessions, Recovery: f.recovery}

	f.client = NewClient(repo, f.mailer, cfg,
		WithClock(func() time.Time { return f.now }),
		WithLogger(logger.Setup(&bytes.Buffer{}, "debug")),
	)

	return f
}

// expectSessionCreate assigns a session id the way the database would.
func (f *clientFixture) expectSessionCreate(sessionID string) {
	f.sessions.On("Create", mock.Anything, mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Session).SessionID = sessionID
		}).
		Return(nil).Once()
}

func TestClient_SignInWithPassword(t *testing.T) {
	ctx := context.Background()
	user := &models.User{UserID: "user-1", Email: "admin@example.com"}

	t.Run("success issues a session that resolves back to the user", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("VerifyPassword", ctx, "admin@example.com", "password123").Return(user, nil)
		f.expectSessionCreate("session-1")

		session, err := f.client.SignInWithPassword(ctx, " Admin@Example.com ", "password123")

		require.NoError(t, err)
		require.NotNil(t, session.User)
		assert.Equal(t, "user-1", session.User.UserID)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Equal(t, f.now.Add(time.Hour), session.TokenExpiry)
		assert.Equal(t, f.now.Add(24*time.Hour), session.ExpiresAt)

		f.sessions.On("GetByID", ctx, "session-1").
			Return(&models.Session{SessionID: "session-1", UserID: "user-1"}, nil)
		f.users.On("GetUserByID", ctx, "user-1").Return(user, nil)

		current, err := f.client.GetSession(ctx, session.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", current.User.Email)
		assert.Equal(t, session.AccessToken, current.AccessToken)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("VerifyPassword", ctx, "ghost@example.com", "password123").
			Return(nil, models.UnauthorizedError("Invalid login credentials"))

		session, err := f.client.SignInWithPassword(ctx, "ghost@example.com", "password123")

		assert.Nil(t, session)
		require.Error(t, err)
		assert.Equal(t, "Invalid login credentials", err.Error())
		f.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed email never reaches the store", func(t *testing.T) {
		f := newClientFixture(t)

		session, err := f.client.SignInWithPassword(ctx, "not-an-email", "password123")

		assert.Nil(t, session)
		assert.True(t, errors.Is(err, models.ErrUnauthorized))
		f.users.AssertNotCalled(t, "VerifyPassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestClient_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and signs in", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("CreateUser", ctx, mock.AnythingOfType("*models.User"), "password123").
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.User).UserID = "user-2"
			}).
			Return(nil)
		f.expectSessionCreate("session-2")

		session, err := f.client.SignUp(ctx, "new@example.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, "user-2", session.User.UserID)
		assert.Equal(t, "new@example.com", session.User.Email)
	})

	t.Run("weak password", func(t *testing.T) {
		f := newClientFixture(t)

		session, err := f.client.SignUp(ctx, "new@example.com", "123")

		assert.Nil(t, session)
		assert.True(t, errors.Is(err, models.ErrValidation))
		assert.Equal(t, "Password should be at least 6 characters", err.Error())
		f.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		f := newClientFixture(t)

		session, err := f.client.SignUp(ctx, "new@example.com", strings.Repeat("p", 73))

		assert.Nil(t, session)
		assert.True(t, errors.Is(err, models.ErrValidation))
		assert.Equal(t, "Password should be at most 72 bytes", err.Error())
		f.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newClientFixture(t)

		_, err := f.client.SignUp(ctx, "nope", "password123")

		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("duplicate account", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("CreateUser", ctx, mock.Anything, "password123").
			Return(models.NewError(models.KindConflict, "User already registered", nil))

		_, err := f.client.SignUp(ctx, "admin@example.com", "password123")

		assert.True(t, errors.Is(err, models.ErrConflict))
	})
}

func TestClient_GetSession(t *testing.T) {
	ctx := context.Background()
	user := &models.User{UserID: "user-1", Email: "admin@example.com"}

	signIn := func(f *clientFixture) *models.Session {
		f.users.On("VerifyPassword", ctx, "admin@example.com", "password123").Return(user, nil)
		f.expectSessionCreate("session-1")
		session, err := f.client.SignInWithPassword(ctx, "admin@example.com", "password123")
		require.NoError(t, err)
		return session
	}

	t.Run("missing token", func(t *testing.T) {
		f := newClientFixture(t)

		session, err := f.client.GetSession(ctx, "")

		assert.Nil(t, session)
		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newClientFixture(t)

		_, err := f.client.GetSession(ctx, "not.a.jwt")

		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newClientFixture(t)
		session := signIn(f)

		f.now = f.now.Add(2 * time.Hour)
		_, err := f.client.GetSession(ctx, session.AccessToken)

		assert.True(t, errors.Is(err, models.ErrUnauthorized))
		f.sessions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("revoked session", func(t *testing.T) {
		f := newClientFixture(t)
		session := signIn(f)

		f.sessions.On("GetByID", ctx, "session-1").Return(nil, models.NotFoundError("session session-1 not found"))

		_, err := f.client.GetSession(ctx, session.AccessToken)

		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run("token signed with another key", func(t *testing.T) {
		f := newClientFixture(t)
		other := newTokenIssuer("other-secret", time.Hour)
		token, _, err := other.issue(user, "session-1", f.now)
		require.NoError(t, err)

		_, err = f.client.GetSession(ctx, token)

		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})
}

func TestClient_SignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session row", func(t *testing.T) {
		f := newClientFixture(t)
		token, _, err := f.client.tokens.issue(&models.User{UserID: "user-1"}, "session-1", f.now)
		require.NoError(t, err)
		f.sessions.On("Delete", ctx, "session-1").Return(nil)

		assert.NoError(t, f.client.SignOut(ctx, token, ""))
		f.sessions.AssertExpectations(t)
	})

	t.Run("expired access token still revokes its session", func(t *testing.T) {
		f := newClientFixture(t)
		token, _, err := f.client.tokens.issue(&models.User{UserID: "user-1"}, "session-1", f.now)
		require.NoError(t, err)
		f.now = f.now.Add(2 * time.Hour)
		f.sessions.On("Delete", ctx, "session-1").Return(nil).Once()

		assert.NoError(t, f.client.SignOut(ctx, token, ""))
		f.sessions.AssertExpectations(t)

		_, err = f.client.GetSession(ctx, token)
		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run("refresh token alone revokes its session", func(t *testing.T) {
		f := newClientFixture(t)
		f.sessions.On("GetByRefreshToken", ctx, "refresh-1").
			Return(&models.Session{SessionID: "session-1", UserID: "user-1"}, nil)
		f.sessions.On("Delete", ctx, "session-1").Return(nil).Once()

		assert.NoError(t, f.client.SignOut(ctx, "", "refresh-1"))
		f.sessions.AssertExpectations(t)
	})

	t.Run("same session is deleted once", func(t *testing.T) {
		f := newClientFixture(t)
		token, _, err := f.client.tokens.issue(&models.User{UserID: "user-1"}, "session-1", f.now)
		require.NoError(t, err)
		f.sessions.On("Delete", ctx, "session-1").Return(nil).Once()
		f.sessions.On("GetByRefreshToken", ctx, "refresh-1").
			Return(&models.Session{SessionID: "session-1", UserID: "user-1"}, nil)

		assert.NoError(t, f.client.SignOut(ctx, token, "refresh-1"))
		f.sessions.AssertNumberOfCalls(t, "Delete", 1)
	})

	t.Run("token signed with another key is ignored", func(t *testing.T) {
		f := newClientFixture(t)
		forged := newTokenIssuer("other-secret", time.Hour)
		token, _, err := forged.issue(&models.User{UserID: "user-1"}, "session-1", f.now)
		require.NoError(t, err)

		assert.NoError(t, f.client.SignOut(ctx, token, ""))
		f.sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("no session is not an error", func(t *testing.T) {
		f := newClientFixture(t)
		f.sessions.On("GetByRefreshToken", ctx, "unknown").
			Return(nil, models.NotFoundError("session not found"))

		assert.NoError(t, f.client.SignOut(ctx, "", ""))
		assert.NoError(t, f.client.SignOut(ctx, "garbage", ""))
		assert.NoError(t, f.client.SignOut(ctx, "garbage", "unknown"))
		f.sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestClient_PasswordRecovery(t *testing.T) {
	ctx := context.Background()
	user := &models.User{UserID: "user-1", Email: "admin@example.com"}

	t.Run("unknown email succeeds without mail", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, models.NotFoundError("not found"))

		assert.NoError(t, f.client.ResetPasswordForEmail(ctx, "ghost@example.com", ""))
		f.mailer.AssertNotCalled(t, "SendRecovery", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("emailed token resets the password once", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("GetUserByEmail", ctx, "admin@example.com").Return(user, nil)

		var stored *models.RecoveryToken
		f.recovery.On("Create", ctx, mock.AnythingOfType("*models.RecoveryToken")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*models.RecoveryToken) }).
			Return(nil)

		var link string
		f.mailer.On("SendRecovery", ctx, "admin@example.com", mock.Anything).
			Run(func(args mock.Arguments) { link = args.String(2) }).
			Return(nil)

		require.NoError(t, f.client.ResetPasswordForEmail(ctx, "admin@example.com", ""))

		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "/admin/recover", u.Path)
		raw := u.Query().Get("token")
		require.NotEmpty(t, raw)
		assert.Equal(t, hashToken(raw), stored.TokenHash)
		assert.NotEqual(t, raw, stored.TokenHash)
		assert.Equal(t, f.now.Add(time.Hour), stored.ExpiresAt)

		f.recovery.On("Consume", ctx, stored.TokenHash).
			Return(&models.RecoveryToken{TokenHash: stored.TokenHash, UserID: "user-1"}, nil).Once()
		f.users.On("UpdatePassword", ctx, "user-1", "brand-new-pass").Return(nil)
		f.sessions.On("DeleteByUserID", ctx, "user-1").Return(nil)

		require.NoError(t, f.client.RecoverPassword(ctx, raw, "brand-new-pass"))

		f.recovery.On("Consume", ctx, stored.TokenHash).
			Return(nil, models.NotFoundError("Token has expired or is invalid")).Once()

		err = f.client.RecoverPassword(ctx, raw, "brand-new-pass")
		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})

	t.Run("mail failure surfaces as transport", func(t *testing.T) {
		f := newClientFixture(t)
		f.users.On("GetUserByEmail", ctx, "admin@example.com").Return(user, nil)
		f.recovery.On("Create", ctx, mock.Anything).Return(nil)
		f.mailer.On("SendRecovery", ctx, "admin@example.com", mock.Anything).Return(errors.New("smtp down"))

		err := f.client.ResetPasswordForEmail(ctx, "admin@example.com", "https://shift.example.com/reset")

		assert.True(t, errors.Is(err, models.ErrTransport))
	})
}

func TestClient_RefreshSession(t *testing.T) {
	ctx := context.Background()
	user := &models.User{UserID: "user-1", Email: "admin@example.com"}

	t.Run("rotates tokens", func(t *testing.T) {
		f := newClientFixture(t)
		f.sessions.On("GetByRefreshToken", ctx, "refresh-old").
			Return(&models.Session{SessionID: "session-old", UserID: "user-1", RefreshToken: "refresh-old"}, nil)
		f.users.On("GetUserByID", ctx, "user-1").Return(user, nil)
		f.sessions.On("Delete", ctx, "session-old").Return(nil)
		f.expectSessionCreate("session-new")

		session, err := f.client.RefreshSession(ctx, "refresh-old")

		require.NoError(t, err)
		assert.NotEqual(t, "refresh-old", session.RefreshToken)
		claims, err := f.client.tokens.parse(session.AccessToken, f.now)
		require.NoError(t, err)
		assert.Equal(t, "session-new", claims.SessionID)
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		f := newClientFixture(t)
		f.sessions.On("GetByRefreshToken", ctx, "nope").Return(nil, models.NotFoundError("refresh token is invalid or expired"))

		_, err := f.client.RefreshSession(ctx, "nope")

		assert.True(t, errors.Is(err, models.ErrUnauthorized))
	})
}

func TestClient_UpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newClientFixture(t)
	user := &models.User{UserID: "user-1", Email: "admin@example.com"}

	token, _, err := f.client.tokens.issue(user, "session-1", f.now)
	require.NoError(t, err)

	f.sessions.On("GetByID", ctx, "session-1").Return(&models.Session{SessionID: "session-1", UserID: "user-1"}, nil)
	f.users.On("GetUserByID", ctx, "user-1").Return(user, nil)

	_, err = f.client.UpdateUser(ctx, token, "short")
	assert.True(t, errors.Is(err, models.ErrValidation))

	f.users.On("UpdatePassword", ctx, "user-1", "long-enough").Return(nil)

	updated, err := f.client.UpdateUser(ctx, token, "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "user-1", updated.UserID)

	_, err = f.client.UpdateUser(ctx, "", "long-enough")
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}
