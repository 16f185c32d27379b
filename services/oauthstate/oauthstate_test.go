package oauthstate

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashranaway/flexile/core"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer, err := NewSigner("state-secret")
	require.NoError(t, err)

	state, err := signer.Issue("u_01G0EZ1XTM37C5X11SQTDNCTM1")
	require.NoError(t, err)
	assert.NotContains(t, state, "state-secret")

	userID, err := signer.Verify(state)
	require.NoError(t, err)
	assert.Equal(t, "u_01G0EZ1XTM37C5X11SQTDNCTM1", userID)
}

func TestSigner_Rejects(t *testing.T) {
	signer, err := NewSigner("state-secret")
	require.NoError(t, err)

	valid, err := signer.Issue("u_1")
	require.NoError(t, err)

	otherSigner, err := NewSigner("another-secret")
	require.NoError(t, err)
	foreign, err := otherSigner.Issue("u_1")
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"flexile-github-connect","sub":"u_2","exp":9999999999}`))
	tampered := strings.Join(parts, ".")

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "u_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"tampered subject", tampered},
		{"alg none", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Verify(tt.state)
			assert.ErrorIs(t, err, core.ErrInvalidOAuthState)
		})
	}
}

func TestSigner_Expiry(t *testing.T) {
	signer, err := NewSigner("state-secret")
	require.NoError(t, err)

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issuedAt }
	state, err := signer.Issue("u_1")
	require.NoError(t, err)

	signer.now = func() time.Time { return issuedAt.Add(DefaultTTL - time.Second) }
	_, err = signer.Verify(state)
	require.NoError(t, err)

	signer.now = func() time.Time { return issuedAt.Add(DefaultTTL + time.Second) }
	_, err = signer.Verify(state)
	assert.ErrorIs(t, err, core.ErrInvalidOAuthState)
}

func TestNewSigner_RequiresSecret(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)

	signer, err := NewSigner("s")
	require.NoError(t, err)
	_, err = signer.Issue("")
	assert.Error(t, err)
}
