package oauthstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yashranaway/flexile/core"
)

const (
	issuer = "flexile-github-connect"

	// DefaultTTL bounds how long a user may sit on GitHub's consent screen
	DefaultTTL = 10 * time.Minute
)

type stateClaims struct {
	jwt.RegisteredClaims
}

// Signer issues and verifies the OAuth state parameter. The state is a short-lived HS256 token
// carrying the user id, so the callback can identify the user without a session.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("OAuth state secret cannot be empty")
	}
	return &Signer{secret: []byte(secret), ttl: DefaultTTL, now: time.Now}, nil
}

func (s *Signer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}

	now := s.now()
	claims := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        core.NewID("st"),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign OAuth state: %w", err)
	}
	return signed, nil
}

// Verify returns the user id the state was issued for.
// Every failure maps to core.ErrInvalidOAuthState.
func (s *Signer) Verify(state string) (string, error) {
	if state == "" {
		return "", core.ErrInvalidOAuthState
	}

	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(
		state,
		claims,
		func(token *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", errors.Join(core.ErrInvalidOAuthState, err)
	}
	if claims.Subject == "" {
		return "", core.ErrInvalidOAuthState
	}
	return claims.Subject, nil
}
