package core

import (
	"errors"
	"strings"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrGitHubAccountConflict is returned when a GitHub identity is already linked to a different user
var ErrGitHubAccountConflict = errors.New("This GitHub account is already connected to another user")

// ErrInvalidOAuthState is returned when an OAuth callback carries a state that was not issued for the user
var ErrInvalidOAuthState = errors.New("Invalid state parameter")

// ErrGitHubNotConfigured is returned by the optional services when the GitHub App is not configured
var ErrGitHubNotConfigured = errors.New("Service GitHub is not configured")

// ErrEmailRequired is returned when signing in with GitHub without an email address
var ErrEmailRequired = errors.New("Email is required")

// IsNotFoundError checks if an error is a "not found" error.
// Repository errors built with fmt.Errorf("... not found") are matched by message as well.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
