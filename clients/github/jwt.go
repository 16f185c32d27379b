package github

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	appJWTLifetime    = 9 * time.Minute // GitHub max is 10 minutes
	appJWTRenewBefore = time.Minute
	appJWTClockDrift  = 60 * time.Second
)

// githubJWTClient signs GitHub App JWTs and caches them until shortly before expiry
type githubJWTClient struct {
	appID      string
	privateKey *rsa.PrivateKey
	now        func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func newGitHubJWTClient(appID string, privateKeyPEM string) (*githubJWTClient, error) {
	// Keys passed through env files often carry escaped newlines
	normalized := strings.ReplaceAll(privateKeyPEM, `\n`, "\n")

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(normalized))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &githubJWTClient{
		appID:      appID,
		privateKey: privateKey,
		now:        time.Now,
	}, nil
}

func (c *githubJWTClient) getToken() (string, error) {
	c.mu.RLock()
	if c.isFresh() {
		defer c.mu.RUnlock()
		return c.token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.isFresh() {
		return c.token, nil
	}

	token, expiresAt, err := c.generateJWT()
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = expiresAt

	return token, nil
}

// isFresh must be called with c.mu held
func (c *githubJWTClient) isFresh() bool {
	return c.token != "" && c.now().Add(appJWTRenewBefore).Before(c.expiresAt)
}

func (c *githubJWTClient) generateJWT() (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(appJWTLifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTClockDrift)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		Issuer:    c.appID,
	})

	tokenString, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}
