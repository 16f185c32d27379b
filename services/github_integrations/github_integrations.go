package github_integrations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/clients"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/services"
)

type GitHubIntegrationsService struct {
	githubRepo   *db.PostgresGitHubIntegrationsRepository
	githubClient clients.GitHubClient
	txManager    services.TransactionManager
}

func NewGitHubIntegrationsService(
	repo *db.PostgresGitHubIntegrationsRepository,
	githubClient clients.GitHubClient,
	txManager services.TransactionManager,
) *GitHubIntegrationsService {
	return &GitHubIntegrationsService{
		githubRepo:   repo,
		githubClient: githubClient,
		txManager:    txManager,
	}
}

// CreateGitHubIntegration links the company to the organization that installed the GitHub App.
// Any previous live integration of the company is deactivated in the same transaction.
func (s *GitHubIntegrationsService) CreateGitHubIntegration(
	ctx context.Context,
	companyID, installationID string,
) (*models.GitHubIntegration, error) {
	log.Infof("📋 Starting to create GitHub integration for company: %s, installation: %s", companyID, installationID)

	if companyID == "" {
		return nil, fmt.Errorf("company ID cannot be empty")
	}
	if installationID == "" {
		return nil, fmt.Errorf("installation ID cannot be empty")
	}
	if _, err := strconv.ParseInt(installationID, 10, 64); err != nil {
		return nil, fmt.Errorf("installation ID must be numeric")
	}

	// The installation tells us which organization granted access
	installation, err := s.githubClient.GetInstallation(ctx, installationID)
	if err != nil {
		log.Errorf("❌ Failed to read GitHub installation %s: %v", installationID, err)
		return nil, fmt.Errorf("failed to verify GitHub installation: %w", err)
	}

	integration := &models.GitHubIntegration{
		ID:               core.NewID("ghi"),
		CompanyID:        companyID,
		OrganizationName: installation.Account.Login,
		OrganizationID:   installation.Account.ID,
		InstallationID:   installationID,
		Status:           models.GitHubIntegrationStatusActive,
	}

	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		deactivated, err := s.githubRepo.DeactivateCompanyGitHubIntegrations(ctx, companyID)
		if err != nil {
			return err
		}
		if deactivated > 0 {
			log.Infof("📋 Deactivated %d previous GitHub integration(s) for company: %s", deactivated, companyID)
		}
		return s.githubRepo.CreateGitHubIntegration(ctx, integration)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub integration: %w", err)
	}

	log.Infof("📋 Completed successfully - created GitHub integration with ID: %s for organization: %s",
		integration.ID, integration.OrganizationName)
	return integration, nil
}

func (s *GitHubIntegrationsService) ListGitHubIntegrations(
	ctx context.Context,
	companyID string,
) ([]*models.GitHubIntegration, error) {
	log.Infof("📋 Starting to list GitHub integrations for company: %s", companyID)
	if companyID == "" {
		return nil, fmt.Errorf("company ID cannot be empty")
	}

	integrations, err := s.githubRepo.ListGitHubIntegrations(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list GitHub integrations: %w", err)
	}

	log.Infof("📋 Completed successfully - found %d GitHub integrations", len(integrations))
	return integrations, nil
}

// GetActiveGitHubIntegration returns None unless the company has a live integration with status active
func (s *GitHubIntegrationsService) GetActiveGitHubIntegration(
	ctx context.Context,
	companyID string,
) (mo.Option[*models.GitHubIntegration], error) {
	if companyID == "" {
		return mo.None[*models.GitHubIntegration](), nil
	}

	integration, err := s.githubRepo.GetActiveGitHubIntegration(ctx, companyID)
	if err != nil {
		return mo.None[*models.GitHubIntegration](), fmt.Errorf("failed to get active GitHub integration: %w", err)
	}

	// The query already filters; this keeps a hand-edited row from slipping through
	if found, ok := integration.Get(); ok && !found.IsActive() {
		return mo.None[*models.GitHubIntegration](), nil
	}
	return integration, nil
}

func (s *GitHubIntegrationsService) DeleteGitHubIntegration(
	ctx context.Context,
	companyID, integrationID string,
) error {
	log.Infof("📋 Starting to delete GitHub integration: %s for company: %s", integrationID, companyID)

	if companyID == "" {
		return fmt.Errorf("company ID cannot be empty")
	}
	if integrationID == "" {
		return fmt.Errorf("integration ID cannot be empty")
	}
	if !core.IsValidULID(integrationID) {
		return fmt.Errorf("integration ID must be a valid ULID")
	}

	integrationOpt, err := s.githubRepo.GetGitHubIntegrationByID(ctx, companyID, integrationID)
	if err != nil {
		return fmt.Errorf("failed to get GitHub integration: %w", err)
	}

	integration, exists := integrationOpt.Get()
	if !exists {
		return fmt.Errorf("GitHub integration %s: %w", integrationID, core.ErrNotFound)
	}

	// We continue with deletion even if uninstall fails (app might already be uninstalled)
	if err := s.githubClient.UninstallApp(ctx, integration.InstallationID); err != nil {
		log.Warnf("⚠️ Failed to uninstall GitHub App (installation ID: %s): %v", integration.InstallationID, err)
	}

	if err := s.githubRepo.DeactivateGitHubIntegration(ctx, companyID, integrationID); err != nil {
		return fmt.Errorf("failed to delete GitHub integration: %w", err)
	}

	log.Infof("📋 Completed successfully - deleted GitHub integration: %s", integrationID)
	return nil
}
