package githubaccounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yashranaway/flexile/clients"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/metrics"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/services"
	"github.com/yashranaway/flexile/services/oauthstate"
)

// CallbackPath is where GitHub redirects back after the user authorizes the OAuth app
const CallbackPath = "/settings/github/callback"

const (
	resultConnected = "connected"
	resultConflict  = "conflict"
	resultFailed    = "failed"
)

type GitHubAccountsService struct {
	githubClient clients.GitHubClient
	usersService services.UsersService
	stateSigner  *oauthstate.Signer
	redirectURI  string
}

func NewGitHubAccountsService(
	githubClient clients.GitHubClient,
	usersService services.UsersService,
	stateSigner *oauthstate.Signer,
	baseURL string,
) *GitHubAccountsService {
	return &GitHubAccountsService{
		githubClient: githubClient,
		usersService: usersService,
		stateSigner:  stateSigner,
		redirectURI:  strings.TrimRight(baseURL, "/") + CallbackPath,
	}
}

// StartConnect returns the GitHub authorization URL for the user
func (s *GitHubAccountsService) StartConnect(ctx context.Context, user *models.User) (string, error) {
	log.Infof("📋 Starting to build GitHub authorization URL for user: %s", user.ID)

	state, err := s.stateSigner.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue OAuth state: %w", err)
	}

	authorizationURL := s.githubClient.BuildAuthorizationURL(s.redirectURI, state)
	log.Infof("📋 Completed successfully - built GitHub authorization URL for user: %s", user.ID)
	return authorizationURL, nil
}

// CompleteConnect handles the OAuth callback: it verifies the state, exchanges the code
// and links the GitHub account to the user the state was issued for.
func (s *GitHubAccountsService) CompleteConnect(ctx context.Context, code, state string) (*models.User, error) {
	log.Infof("📋 Starting to complete GitHub connection")

	user, err := s.completeConnect(ctx, code, state)
	switch {
	case err == nil:
		metrics.GitHubConnectionsTotal.WithLabelValues(resultConnected).Inc()
	case errors.Is(err, core.ErrGitHubAccountConflict):
		metrics.GitHubConnectionsTotal.WithLabelValues(resultConflict).Inc()
		log.Warnf("⚠️ GitHub account is already connected to another user")
		return nil, err
	default:
		metrics.GitHubConnectionsTotal.WithLabelValues(resultFailed).Inc()
		log.Errorf("❌ Failed to complete GitHub connection: %v", err)
		return nil, err
	}

	log.Infof("📋 Completed successfully - connected GitHub account %s to user: %s", user.GitHubUsername, user.ID)
	return user, nil
}

func (s *GitHubAccountsService) completeConnect(ctx context.Context, code, state string) (*models.User, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code cannot be empty")
	}

	userID, err := s.stateSigner.Verify(state)
	if err != nil {
		return nil, err
	}

	maybeUser, err := s.usersService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if maybeUser.IsAbsent() {
		return nil, fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}

	token, err := s.githubClient.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange OAuth code: %w", err)
	}
	accessToken := core.NewSecret(token.AccessToken)

	githubUser, err := s.githubClient.FetchUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub user: %w", err)
	}

	return s.usersService.ConnectGitHub(ctx, userID, models.GitHubCredential{
		UID:         strconv.FormatInt(githubUser.ID, 10),
		AccessToken: accessToken,
		Username:    githubUser.Login,
	})
}
