package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies HS256 bearer tokens whose subject is the user's email.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*Tokens)

func WithTokenClock(now func() time.Time) TokenOption {
	return func(t *Tokens) {
		t.now = now
	}
}

func NewTokens(secret string, ttl time.Duration, opts ...TokenOption) *Tokens {
	t := &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Tokens) Issue(email string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expires, nil
}

// Verify returns the subject of a valid, unexpired token.
func (t *Tokens) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
