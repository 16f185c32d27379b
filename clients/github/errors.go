package github

import "fmt"

// OAuthError is returned when GitHub rejects an authorization code exchange.
// GitHub reports most OAuth failures with HTTP 200 and an error field, so
// StatusCode may be 200.
type OAuthError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *OAuthError) Error() string {
	switch {
	case e.Description != "":
		return fmt.Sprintf("GitHub OAuth error: %s", e.Description)
	case e.Code != "":
		return fmt.Sprintf("GitHub OAuth error: %s", e.Code)
	default:
		return fmt.Sprintf("GitHub OAuth error: status %d", e.StatusCode)
	}
}

// APIError is returned when an authenticated GitHub endpoint answers with a non-2xx status
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error on %s: status %d, body: %s", e.Endpoint, e.StatusCode, e.Body)
}
