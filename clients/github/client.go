package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
	"golang.org/x/time/rate"

	"github.com/yashranaway/flexile/clients"
	"github.com/yashranaway/flexile/config"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/metrics"
	"github.com/yashranaway/flexile/models"
)

const (
	apiVersion  = "2022-11-28"
	oauthScopes = "read:user user:email"

	// Error bodies are only kept for diagnostics
	maxErrorBodyBytes = 4 << 10
)

var _ clients.GitHubClient = (*GitHubClient)(nil)

// GitHubClient implements the clients.GitHubClient interface
type GitHubClient struct {
	httpClient   *http.Client
	apiBaseURL   string
	oauthBaseURL string
	clientID     string
	clientSecret string
	jwtClient    *githubJWTClient // nil when the GitHub App is not configured
	limiter      *rate.Limiter
}

// OAuth token response. GitHub answers errors with HTTP 200 and the error fields set.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// NewGitHubClient creates a new GitHub client with the provided configuration
func NewGitHubClient(cfg config.GitHubConfig) (*GitHubClient, error) {
	var jwtClient *githubJWTClient
	if cfg.App.IsConfigured() {
		var err error
		jwtClient, err = newGitHubJWTClient(cfg.App.AppID, cfg.App.AppPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT client: %w", err)
		}
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return &GitHubClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		apiBaseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		oauthBaseURL: strings.TrimRight(cfg.OAuthBaseURL, "/"),
		clientID:     cfg.OAuth.ClientID,
		clientSecret: cfg.OAuth.ClientSecret,
		jwtClient:    jwtClient,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}, nil
}

// BuildAuthorizationURL returns the GitHub authorize URL. The state is passed through untouched.
func (c *GitHubClient) BuildAuthorizationURL(redirectURI, state string) string {
	params := url.Values{
		"client_id":    {c.clientID},
		"redirect_uri": {redirectURI},
		"scope":        {oauthScopes},
		"state":        {state},
	}
	return c.oauthBaseURL + "/login/oauth/authorize?" + params.Encode()
}

// ExchangeCodeForToken exchanges an OAuth authorization code for an access token
func (c *GitHubClient) ExchangeCodeForToken(ctx context.Context, code string) (*models.GitHubToken, error) {
	data := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.oauthBaseURL+"/login/oauth/access_token",
		bytes.NewBufferString(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(ctx, req, "/login/oauth/access_token")
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, &OAuthError{StatusCode: resp.StatusCode, Description: readErrorBody(resp.Body)}
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if tokenResp.Error != "" {
		return nil, &OAuthError{
			StatusCode:  resp.StatusCode,
			Code:        tokenResp.Error,
			Description: tokenResp.ErrorDescription,
		}
	}

	if tokenResp.AccessToken == "" {
		return nil, &OAuthError{StatusCode: resp.StatusCode, Description: "no access token in response"}
	}

	return &models.GitHubToken{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		Scope:       tokenResp.Scope,
	}, nil
}

// FetchUser returns the profile of the token's owner
func (c *GitHubClient) FetchUser(ctx context.Context, accessToken core.Secret) (*models.GitHubUser, error) {
	var user models.GitHubUser
	if err := c.getJSON(ctx, accessToken.Reveal(), "/user", "/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchUserEmails lists the token owner's emails, including private ones
func (c *GitHubClient) FetchUserEmails(ctx context.Context, accessToken core.Secret) ([]models.GitHubEmail, error) {
	var emails []models.GitHubEmail
	if err := c.getJSON(ctx, accessToken.Reveal(), "/user/emails", "/user/emails", &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

// FetchPullRequest returns None when GitHub does not answer 2xx:
// the PR may be deleted, private, or outside the token's scope.
func (c *GitHubClient) FetchPullRequest(
	ctx context.Context,
	accessToken core.Secret,
	owner, repo string,
	number int64,
) (mo.Option[*models.GitHubPullRequest], error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", url.PathEscape(owner), url.PathEscape(repo), number)

	var pr models.GitHubPullRequest
	found, err := c.lookupJSON(ctx, accessToken.Reveal(), path, "/repos/{owner}/{repo}/pulls/{number}", &pr)
	if err != nil || !found {
		return mo.None[*models.GitHubPullRequest](), err
	}
	return mo.Some(&pr), nil
}

// FetchIssue has the same None-on-failure contract as FetchPullRequest
func (c *GitHubClient) FetchIssue(
	ctx context.Context,
	accessToken core.Secret,
	owner, repo string,
	number int64,
) (mo.Option[*models.GitHubIssue], error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(owner), url.PathEscape(repo), number)

	var issue models.GitHubIssue
	found, err := c.lookupJSON(ctx, accessToken.Reveal(), path, "/repos/{owner}/{repo}/issues/{number}", &issue)
	if err != nil || !found {
		return mo.None[*models.GitHubIssue](), err
	}
	return mo.Some(&issue), nil
}

// GetInstallation reads a GitHub App installation, which carries the organization account
func (c *GitHubClient) GetInstallation(ctx context.Context, installationID string) (*models.GitHubInstallation, error) {
	jwtToken, err := c.appToken()
	if err != nil {
		return nil, err
	}

	var installation models.GitHubInstallation
	path := "/app/installations/" + url.PathEscape(installationID)
	if err := c.getJSON(ctx, jwtToken, path, "/app/installations/{id}", &installation); err != nil {
		return nil, err
	}
	return &installation, nil
}

// UninstallApp uninstalls a GitHub App installation
func (c *GitHubClient) UninstallApp(ctx context.Context, installationID string) error {
	jwtToken, err := c.appToken()
	if err != nil {
		return err
	}

	path := "/app/installations/" + url.PathEscape(installationID)
	req, err := c.newAPIRequest(ctx, http.MethodDelete, path, jwtToken)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, req, "/app/installations/{id}")
	if err != nil {
		return fmt.Errorf("failed to uninstall app: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content is success, 404 means already uninstalled
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return nil
	}

	return &APIError{Endpoint: path, StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
}

func (c *GitHubClient) appToken() (string, error) {
	if c.jwtClient == nil {
		return "", core.ErrGitHubNotConfigured
	}

	token, err := c.jwtClient.getToken()
	if err != nil {
		return "", fmt.Errorf("failed to get JWT: %w", err)
	}
	return token, nil
}

// getJSON decodes a 2xx body into out and turns any other status into an *APIError
func (c *GitHubClient) getJSON(ctx context.Context, bearer, path, endpoint string, out any) error {
	req, err := c.newAPIRequest(ctx, http.MethodGet, path, bearer)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, req, endpoint)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// lookupJSON is getJSON for lookups where a non-2xx status means "not available" rather than an error
func (c *GitHubClient) lookupJSON(ctx context.Context, bearer, path, endpoint string, out any) (bool, error) {
	err := c.getJSON(ctx, bearer, path, endpoint, out)
	if err == nil {
		return true, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false, nil
	}
	return false, err
}

func (c *GitHubClient) newAPIRequest(ctx context.Context, method, path, bearer string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiBaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	return req, nil
}

// do waits for the rate limiter and records request metrics. It never retries.
func (c *GitHubClient) do(ctx context.Context, req *http.Request, endpoint string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GitHubRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GitHubRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	metrics.GitHubRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func readErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	return string(data)
}
