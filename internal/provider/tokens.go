package provider

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shiftsite/internal/models"
)

// Claims is the payload of an access token. SessionID ties the token to a
// row in the sessions table.
type Claims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *tokenIssuer) issue(user *models.User, sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(t.ttl)

	claims := Claims{
		SessionID: sessionID,
		Email:     user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

func (t *tokenIssuer) parse(tokenString string, now time.Time) (*Claims, error) {
	return t.parseWith(tokenString, jwt.WithTimeFunc(func() time.Time { return now }))
}

// parseSignature checks the signature only, so an expired access token
// still names the session it belonged to. Sign-out relies on this.
func (t *tokenIssuer) parseSignature(tokenString string) (*Claims, error) {
	return t.parseWith(tokenString, jwt.WithoutClaimsValidation())
}

func (t *tokenIssuer) parseWith(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, t.key, opts...)
	if err != nil || !token.Valid {
		return nil, models.NewError(models.KindUnauthorized, "Invalid or expired session", err)
	}

	if claims.SessionID == "" || claims.Subject == "" {
		return nil, models.UnauthorizedError("Invalid or expired session")
	}

	return claims, nil
}

func (t *tokenIssuer) key(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return t.secret, nil
}

// randomToken returns 32 random bytes, hex encoded.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken is how recovery tokens are stored; the raw value only travels
// in the email.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
