package github

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
)

// MockGitHubClient is a mock implementation of the GitHubClient interface
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) BuildAuthorizationURL(redirectURI, state string) string {
	args := m.Called(redirectURI, state)
	return args.String(0)
}

// ExchangeCodeForToken mocks the OAuth code exchange
func (m *MockGitHubClient) ExchangeCodeForToken(ctx context.Context, code string) (*models.GitHubToken, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GitHubToken), args.Error(1)
}

func (m *MockGitHubClient) FetchUser(ctx context.Context, accessToken core.Secret) (*models.GitHubUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GitHubUser), args.Error(1)
}

func (m *MockGitHubClient) FetchUserEmails(ctx context.Context, accessToken core.Secret) ([]models.GitHubEmail, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GitHubEmail), args.Error(1)
}

func (m *MockGitHubClient) FetchPullRequest(
	ctx context.Context,
	accessToken core.Secret,
	owner, repo string,
	number int64,
) (mo.Option[*models.GitHubPullRequest], error) {
	args := m.Called(ctx, accessToken, owner, repo, number)
	return args.Get(0).(mo.Option[*models.GitHubPullRequest]), args.Error(1)
}

func (m *MockGitHubClient) FetchIssue(
	ctx context.Context,
	accessToken core.Secret,
	owner, repo string,
	number int64,
) (mo.Option[*models.GitHubIssue], error) {
	args := m.Called(ctx, accessToken, owner, repo, number)
	return args.Get(0).(mo.Option[*models.GitHubIssue]), args.Error(1)
}

func (m *MockGitHubClient) GetInstallation(ctx context.Context, installationID string) (*models.GitHubInstallation, error) {
	args := m.Called(ctx, installationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GitHubInstallation), args.Error(1)
}

// UninstallApp mocks the GitHub App uninstall operation
func (m *MockGitHubClient) UninstallApp(ctx context.Context, installationID string) error {
	args := m.Called(ctx, installationID)
	return args.Error(0)
}
