package githubaccounts

import (
	"context"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
)

// OptionalGitHubAccountsService is used when the GitHub OAuth app is not configured
type OptionalGitHubAccountsService struct{}

func NewOptionalGitHubAccountsService() *OptionalGitHubAccountsService {
	return &OptionalGitHubAccountsService{}
}

func (s *OptionalGitHubAccountsService) StartConnect(ctx context.Context, user *models.User) (string, error) {
	return "", core.ErrGitHubNotConfigured
}

func (s *OptionalGitHubAccountsService) CompleteConnect(ctx context.Context, code, state string) (*models.User, error) {
	return nil, core.ErrGitHubNotConfigured
}
