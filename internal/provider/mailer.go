package provider

import (
	"context"
	"log/slog"
	"net/url"
)

// Mailer delivers account emails.
type Mailer interface {
	SendRecovery(ctx context.Context, email, link string) error
}

// LogMailer writes recovery links to the log instead of sending mail. The
// usable link only shows up at debug level.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendRecovery(ctx context.Context, email, link string) error {
	m.logger.InfoContext(ctx, "password recovery requested",
		slog.String("email", email),
		slog.String("link", redactToken(link)),
	)
	m.logger.DebugContext(ctx, "password recovery link",
		slog.String("email", email),
		slog.String("link", link),
	)
	return nil
}

func redactToken(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "[unparseable link]"
	}

	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
