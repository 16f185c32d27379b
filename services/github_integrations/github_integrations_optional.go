package github_integrations

import (
	"context"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
)

// OptionalGitHubIntegrationsService is used when the GitHub App is not configured.
// Reads report "no integration" so PR lookups keep working; writes fail.
type OptionalGitHubIntegrationsService struct{}

// NewOptionalGitHubIntegrationsService creates a new optional GitHub integrations service
func NewOptionalGitHubIntegrationsService() *OptionalGitHubIntegrationsService {
	return &OptionalGitHubIntegrationsService{}
}

func (s *OptionalGitHubIntegrationsService) CreateGitHubIntegration(
	ctx context.Context,
	companyID, installationID string,
) (*models.GitHubIntegration, error) {
	return nil, core.ErrGitHubNotConfigured
}

func (s *OptionalGitHubIntegrationsService) ListGitHubIntegrations(
	ctx context.Context,
	companyID string,
) ([]*models.GitHubIntegration, error) {
	return []*models.GitHubIntegration{}, nil
}

func (s *OptionalGitHubIntegrationsService) GetActiveGitHubIntegration(
	ctx context.Context,
	companyID string,
) (mo.Option[*models.GitHubIntegration], error) {
	return mo.None[*models.GitHubIntegration](), nil
}

func (s *OptionalGitHubIntegrationsService) DeleteGitHubIntegration(
	ctx context.Context,
	companyID, integrationID string,
) error {
	return core.ErrGitHubNotConfigured
}
