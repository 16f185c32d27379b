package clients

import (
	"context"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
)

// GitHubOAuthClient covers the user-to-server OAuth flow
type GitHubOAuthClient interface {
	BuildAuthorizationURL(redirectURI, state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*models.GitHubToken, error)
}

// GitHubClient defines the interface for GitHub API operations
type GitHubClient interface {
	GitHubOAuthClient

	// User operations (fail with *github.APIError on non-2xx)
	FetchUser(ctx context.Context, accessToken core.Secret) (*models.GitHubUser, error)
	FetchUserEmails(ctx context.Context, accessToken core.Secret) ([]models.GitHubEmail, error)

	// Repository lookups: None means not found or inaccessible with this token
	FetchPullRequest(
		ctx context.Context,
		accessToken core.Secret,
		owner, repo string,
		number int64,
	) (mo.Option[*models.GitHubPullRequest], error)
	FetchIssue(
		ctx context.Context,
		accessToken core.Secret,
		owner, repo string,
		number int64,
	) (mo.Option[*models.GitHubIssue], error)

	// App operations, authenticated with the App JWT
	GetInstallation(ctx context.Context, installationID string) (*models.GitHubInstallation, error)
	UninstallApp(ctx context.Context, installationID string) error
}
