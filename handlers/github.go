package handlers

import (
	"context"

	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/services"
)

type GitHubAPIHandler struct {
	usersService              services.UsersService
	githubAccountsService     services.GitHubAccountsService
	githubIntegrationsService services.GitHubIntegrationsService
	prInfoService             services.PRInfoService
}

func NewGitHubAPIHandler(
	usersService services.UsersService,
	githubAccountsService services.GitHubAccountsService,
	githubIntegrationsService services.GitHubIntegrationsService,
	prInfoService services.PRInfoService,
) *GitHubAPIHandler {
	return &GitHubAPIHandler{
		usersService:              usersService,
		githubAccountsService:     githubAccountsService,
		githubIntegrationsService: githubIntegrationsService,
		prInfoService:             prInfoService,
	}
}

// GetPRInfo resolves a PR URL for the user within the company
func (h *GitHubAPIHandler) GetPRInfo(
	ctx context.Context,
	prURL string,
	user *models.User,
	company *models.Company,
) (*models.PRInfoResponse, error) {
	response, err := h.prInfoService.Resolve(ctx, prURL, user, company)
	if err != nil {
		log.Errorf("❌ Failed to resolve PR info: %v", err)
		return nil, err
	}
	return response, nil
}

func (h *GitHubAPIHandler) StartGitHubConnect(ctx context.Context, user *models.User) (string, error) {
	log.Infof("🔗 Starting GitHub connect for user: %s", user.ID)
	authorizationURL, err := h.githubAccountsService.StartConnect(ctx, user)
	if err != nil {
		log.Errorf("❌ Failed to start GitHub connect: %v", err)
		return "", err
	}
	return authorizationURL, nil
}

// CompleteGitHubConnect finishes the OAuth callback
func (h *GitHubAPIHandler) CompleteGitHubConnect(ctx context.Context, code, state string) (*models.User, error) {
	return h.githubAccountsService.CompleteConnect(ctx, code, state)
}

func (h *GitHubAPIHandler) DisconnectGitHub(ctx context.Context, user *models.User) (*models.User, error) {
	log.Infof("🔌 Disconnecting GitHub for user: %s", user.ID)
	updated, err := h.usersService.DisconnectGitHub(ctx, user.ID)
	if err != nil {
		log.Errorf("❌ Failed to disconnect GitHub: %v", err)
		return nil, err
	}

	log.Infof("✅ GitHub disconnected for user: %s", user.ID)
	return updated, nil
}

// SignInWithGitHub links or creates the user for a GitHub sign-in performed by the frontend
func (h *GitHubAPIHandler) SignInWithGitHub(
	ctx context.Context,
	email string,
	credential models.GitHubCredential,
) (*models.User, bool, error) {
	user, created, err := h.usersService.SignInWithGitHub(ctx, email, credential)
	if err != nil {
		log.Errorf("❌ GitHub sign-in failed: %v", err)
		return nil, false, err
	}

	log.Infof("✅ GitHub sign-in succeeded for user: %s (created: %t)", user.ID, created)
	return user, created, nil
}

func (h *GitHubAPIHandler) ListGitHubIntegrations(
	ctx context.Context,
	company *models.Company,
) ([]*models.GitHubIntegration, error) {
	log.Infof("📋 Listing GitHub integrations for company: %s", company.ID)
	integrations, err := h.githubIntegrationsService.ListGitHubIntegrations(ctx, company.ID)
	if err != nil {
		log.Errorf("❌ Failed to get GitHub integrations: %v", err)
		return nil, err
	}

	log.Infof("✅ Retrieved %d GitHub integrations for company: %s", len(integrations), company.ID)
	return integrations, nil
}

func (h *GitHubAPIHandler) CreateGitHubIntegration(
	ctx context.Context,
	company *models.Company,
	installationID string,
) (*models.GitHubIntegration, error) {
	log.Infof("➕ Creating GitHub integration for company: %s", company.ID)
	integration, err := h.githubIntegrationsService.CreateGitHubIntegration(ctx, company.ID, installationID)
	if err != nil {
		log.Errorf("❌ Failed to create GitHub integration: %v", err)
		return nil, err
	}

	log.Infof("✅ GitHub integration created successfully: %s", integration.ID)
	return integration, nil
}

func (h *GitHubAPIHandler) DeleteGitHubIntegration(
	ctx context.Context,
	company *models.Company,
	integrationID string,
) error {
	log.Infof("🗑️ Deleting GitHub integration: %s", integrationID)
	if err := h.githubIntegrationsService.DeleteGitHubIntegration(ctx, company.ID, integrationID); err != nil {
		log.Errorf("❌ Failed to delete GitHub integration: %v", err)
		return err
	}

	log.Infof("✅ GitHub integration deleted successfully: %s", integrationID)
	return nil
}
