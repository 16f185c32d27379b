package github_integrations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

type MockGitHubIntegrationsService struct {
	mock.Mock
}

func (m *MockGitHubIntegrationsService) CreateGitHubIntegration(
	ctx context.Context,
	companyID, installationID string,
) (*models.GitHubIntegration, error) {
	args := m.Called(ctx, companyID, installationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GitHubIntegration), args.Error(1)
}

func (m *MockGitHubIntegrationsService) ListGitHubIntegrations(
	ctx context.Context,
	companyID string,
) ([]*models.GitHubIntegration, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GitHubIntegration), args.Error(1)
}

func (m *MockGitHubIntegrationsService) GetActiveGitHubIntegration(
	ctx context.Context,
	companyID string,
) (mo.Option[*models.GitHubIntegration], error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(mo.Option[*models.GitHubIntegration]), args.Error(1)
}

func (m *MockGitHubIntegrationsService) DeleteGitHubIntegration(
	ctx context.Context,
	companyID, integrationID string,
) error {
	args := m.Called(ctx, companyID, integrationID)
	return args.Error(0)
}
