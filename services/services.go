package services

import (
	"context"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/models"
)

// UsersService defines the interface for user and GitHub credential operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
	GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error)
	GetUserByGitHubUID(ctx context.Context, uid string) (mo.Option[*models.User], error)
	ConnectGitHub(ctx context.Context, userID string, credential models.GitHubCredential) (*models.User, error)
	DisconnectGitHub(ctx context.Context, userID string) (*models.User, error)
	IsGitHubConnected(user *models.User) bool
	SignInWithGitHub(ctx context.Context, email string, credential models.GitHubCredential) (*models.User, bool, error)
}

// CompaniesService defines the interface for company membership lookups
type CompaniesService interface {
	GetCompanyForUser(ctx context.Context, companyID, userID string) (mo.Option[*models.Company], error)
}

// GitHubIntegrationsService defines the interface for company GitHub organization integrations
type GitHubIntegrationsService interface {
	CreateGitHubIntegration(ctx context.Context, companyID, installationID string) (*models.GitHubIntegration, error)
	ListGitHubIntegrations(ctx context.Context, companyID string) ([]*models.GitHubIntegration, error)
	GetActiveGitHubIntegration(ctx context.Context, companyID string) (mo.Option[*models.GitHubIntegration], error)
	DeleteGitHubIntegration(ctx context.Context, companyID, integrationID string) error
}

// InvoicesService defines the interface for invoice lookups by PR URL
type InvoicesService interface {
	CheckPaidStatus(ctx context.Context, prURL, companyID string) (mo.Option[*models.PaidStatus], error)
}

// GitHubAccountsService drives the OAuth flow that links a GitHub account to a user
type GitHubAccountsService interface {
	StartConnect(ctx context.Context, user *models.User) (string, error)
	CompleteConnect(ctx context.Context, code, state string) (*models.User, error)
}

// PRInfoService resolves PR URLs into billing-relevant PR data
type PRInfoService interface {
	Resolve(
		ctx context.Context,
		rawURL string,
		user *models.User,
		company *models.Company,
	) (*models.PRInfoResponse, error)
	PRBelongsToOrg(ctx context.Context, rawURL, companyID string) (bool, error)
}

// TransactionManager runs work inside a database transaction carried on the context
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
