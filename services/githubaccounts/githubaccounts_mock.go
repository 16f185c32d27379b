package githubaccounts

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

type MockGitHubAccountsService struct {
	mock.Mock
}

func (m *MockGitHubAccountsService) StartConnect(ctx context.Context, user *models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockGitHubAccountsService) CompleteConnect(ctx context.Context, code, state string) (*models.User, error) {
	args := m.Called(ctx, code, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
