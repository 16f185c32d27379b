package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipherKey() string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
}

func TestSecret_NeverRendersValue(t *testing.T) {
	secret := NewSecret("gho_super_secret")

	assert.Equal(t, "gho_super_secret", secret.Reveal())
	assert.NotContains(t, fmt.Sprintf("%s", secret), "gho_super_secret")
	assert.NotContains(t, fmt.Sprintf("%v", secret), "gho_super_secret")
	assert.NotContains(t, fmt.Sprintf("%#v", secret), "gho_super_secret")

	payload, err := json.Marshal(struct {
		Token Secret `json:"token"`
	}{Token: secret})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"[REDACTED]"}`, string(payload))
}

func TestSecret_Empty(t *testing.T) {
	var secret Secret
	assert.True(t, secret.IsEmpty())
	assert.Equal(t, "", secret.String())
}

func TestTokenCipher_RoundTrip(t *testing.T) {
	cipher, err := NewTokenCipher(testCipherKey())
	require.NoError(t, err)

	ciphertext, err := cipher.Encrypt(NewSecret("super-secret-token"))
	require.NoError(t, err)
	assert.NotEmpty(t, ciphertext)
	assert.NotContains(t, ciphertext, "super-secret-token")

	again, err := cipher.Encrypt(NewSecret("super-secret-token"))
	require.NoError(t, err)
	assert.NotEqual(t, ciphertext, again, "nonces must differ between encryptions")

	plain, err := cipher.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "super-secret-token", plain.Reveal())
}

func TestTokenCipher_EmptyValues(t *testing.T) {
	cipher, err := NewTokenCipher(testCipherKey())
	require.NoError(t, err)

	ciphertext, err := cipher.Encrypt(Secret{})
	require.NoError(t, err)
	assert.Equal(t, "", ciphertext)

	plain, err := cipher.Decrypt("")
	require.NoError(t, err)
	assert.True(t, plain.IsEmpty())
}

func TestTokenCipher_Errors(t *testing.T) {
	t.Run("invalid key encoding", func(t *testing.T) {
		_, err := NewTokenCipher("not base64!")
		assert.Error(t, err)
	})

	t.Run("wrong key size", func(t *testing.T) {
		_, err := NewTokenCipher(base64.StdEncoding.EncodeToString([]byte("short")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be 32 bytes")
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		cipher, err := NewTokenCipher(testCipherKey())
		require.NoError(t, err)

		ciphertext, err := cipher.Encrypt(NewSecret("token"))
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(ciphertext)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff

		_, err = cipher.Decrypt(base64.StdEncoding.EncodeToString(raw))
		assert.Error(t, err)
	})

	t.Run("short ciphertext", func(t *testing.T) {
		cipher, err := NewTokenCipher(testCipherKey())
		require.NoError(t, err)

		_, err = cipher.Decrypt(base64.StdEncoding.EncodeToString([]byte("abc")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too short")
	})

	t.Run("different key", func(t *testing.T) {
		cipher, err := NewTokenCipher(testCipherKey())
		require.NoError(t, err)
		other, err := NewTokenCipher(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 32))))
		require.NoError(t, err)

		ciphertext, err := cipher.Encrypt(NewSecret("token"))
		require.NoError(t, err)

		_, err = other.Decrypt(ciphertext)
		assert.Error(t, err)
	})
}
