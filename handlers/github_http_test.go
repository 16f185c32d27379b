package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yashranaway/flexile/appctx"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
	githubaccounts "github.com/yashranaway/flexile/services/githubaccounts"
	githubintegrations "github.com/yashranaway/flexile/services/github_integrations"
	"github.com/yashranaway/flexile/services/prinfo"
	"github.com/yashranaway/flexile/services/users"
)

var (
	testUser = &models.User{
		ID:                "u_01G0EZ1XTM37C5X11SQTDNCTM1",
		Email:             "dev@example.com",
		GitHubUID:         "583231",
		GitHubUsername:    "octocat",
		GitHubAccessToken: core.NewSecret("gho_token"),
	}
	testCompany = &models.Company{ID: "co_01G0EZ1XTM37C5X11SQTDNCTM2", Name: "Antiwork"}
)

type handlerTestEnv struct {
	http                *GitHubHTTPHandler
	usersService        *users.MockUsersService
	accountsService     *githubaccounts.MockGitHubAccountsService
	integrationsService *githubintegrations.MockGitHubIntegrationsService
	prInfoService       *prinfo.MockPRInfoService
}

func setupHandlerTest(t *testing.T) *handlerTestEnv {
	env := &handlerTestEnv{
		usersService:        &users.MockUsersService{},
		accountsService:     &githubaccounts.MockGitHubAccountsService{},
		integrationsService: &githubintegrations.MockGitHubIntegrationsService{},
		prInfoService:       &prinfo.MockPRInfoService{},
	}
	t.Cleanup(func() {
		env.usersService.AssertExpectations(t)
		env.accountsService.AssertExpectations(t)
		env.integrationsService.AssertExpectations(t)
		env.prInfoService.AssertExpectations(t)
	})

	env.http = NewGitHubHTTPHandler(NewGitHubAPIHandler(
		env.usersService,
		env.accountsService,
		env.integrationsService,
		env.prInfoService,
	))
	return env
}

func withUserAndCompany(req *http.Request) *http.Request {
	ctx := appctx.SetUser(req.Context(), testUser)
	ctx = appctx.SetCompany(ctx, testCompany)
	return req.WithContext(ctx)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGitHubHTTPHandler_HandleGetPRInfo(t *testing.T) {
	const prURL = "https://github.com/antiwork/flexile/pull/42"

	t.Run("valid PR", func(t *testing.T) {
		env := setupHandlerTest(t)
		bounty := int64(50000)
		env.prInfoService.On("Resolve", mock.Anything, prURL, testUser, testCompany).Return(&models.PRInfoResponse{
			Valid:                    true,
			Ref:                      models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 42},
			RequiresGitHubConnection: false,
			PRInfo: mo.Some(&models.PRInfo{
				Number:         42,
				Title:          "Fix rounding",
				State:          "merged",
				Merged:         true,
				AuthorLogin:    "octocat",
				AuthorVerified: true,
				Org:            "antiwork",
				BountyCents:    mo.Some(bounty),
			}),
		}, nil)

		req := withUserAndCompany(httptest.NewRequest(http.MethodGet, "/pr_info?pr_url="+prURL, nil))
		rec := httptest.NewRecorder()
		env.http.HandleGetPRInfo(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, true, body["valid"])
		assert.Equal(t, "antiwork", body["owner"])
		assert.Equal(t, float64(42), body["number"])
		assert.Nil(t, body["already_paid"])
		info := body["pr_info"].(map[string]any)
		assert.Equal(t, "merged", info["state"])
		assert.Equal(t, float64(50000), info["bounty_cents"])
	})

	t.Run("invalid URL yields only valid false", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.prInfoService.On("Resolve", mock.Anything, "https://example.com", testUser, testCompany).
			Return(&models.PRInfoResponse{Valid: false}, nil)

		req := withUserAndCompany(httptest.NewRequest(http.MethodGet, "/pr_info?pr_url=https://example.com", nil))
		rec := httptest.NewRecorder()
		env.http.HandleGetPRInfo(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"valid":false}`, rec.Body.String())
	})

	t.Run("blank URL", func(t *testing.T) {
		env := setupHandlerTest(t)

		req := withUserAndCompany(httptest.NewRequest(http.MethodGet, "/pr_info?pr_url=%20", nil))
		rec := httptest.NewRecorder()
		env.http.HandleGetPRInfo(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "PR URL is required", decodeJSON(t, rec)["error"])
	})

	t.Run("resolver error", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.prInfoService.On("Resolve", mock.Anything, prURL, testUser, testCompany).Return(nil, errors.New("db down"))

		req := withUserAndCompany(httptest.NewRequest(http.MethodGet, "/pr_info?pr_url="+prURL, nil))
		rec := httptest.NewRecorder()
		env.http.HandleGetPRInfo(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing company", func(t *testing.T) {
		env := setupHandlerTest(t)

		req := httptest.NewRequest(http.MethodGet, "/pr_info?pr_url="+prURL, nil)
		req = req.WithContext(appctx.SetUser(req.Context(), testUser))
		rec := httptest.NewRecorder()
		env.http.HandleGetPRInfo(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGitHubHTTPHandler_Settings(t *testing.T) {
	t.Run("connection status", func(t *testing.T) {
		env := setupHandlerTest(t)

		req := withUserAndCompany(httptest.NewRequest(http.MethodGet, "/settings/github", nil))
		rec := httptest.NewRecorder()
		env.http.HandleGetGitHubConnection(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"connected":true,"username":"octocat","uid":"583231"}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "gho_token")
	})

	t.Run("connect returns authorization URL", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.accountsService.On("StartConnect", mock.Anything, testUser).
			Return("https://github.com/login/oauth/authorize?client_id=x", nil)

		req := withUserAndCompany(httptest.NewRequest(http.MethodPost, "/settings/github/connect", nil))
		rec := httptest.NewRecorder()
		env.http.HandleConnectGitHub(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://github.com/login/oauth/authorize?client_id=x", decodeJSON(t, rec)["authorization_url"])
	})

	t.Run("connect when OAuth is not configured", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.accountsService.On("StartConnect", mock.Anything, testUser).Return("", core.ErrGitHubNotConfigured)

		req := withUserAndCompany(httptest.NewRequest(http.MethodPost, "/settings/github/connect", nil))
		rec := httptest.NewRecorder()
		env.http.HandleConnectGitHub(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("disconnect", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.usersService.On("DisconnectGitHub", mock.Anything, testUser.ID).
			Return(&models.User{ID: testUser.ID, Email: testUser.Email}, nil)

		req := withUserAndCompany(httptest.NewRequest(http.MethodDelete, "/settings/github", nil))
		rec := httptest.NewRecorder()
		env.http.HandleDisconnectGitHub(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"connected":false,"username":null,"uid":null}`, rec.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		env := setupHandlerTest(t)

		rec := httptest.NewRecorder()
		env.http.HandleGetGitHubConnection(rec, httptest.NewRequest(http.MethodGet, "/settings/github", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGitHubHTTPHandler_HandleGitHubCallback(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		setup       func(*githubaccounts.MockGitHubAccountsService)
		contains    []string
		notContains []string
	}{
		{
			name:  "success",
			query: "?code=abc&state=signed",
			setup: func(m *githubaccounts.MockGitHubAccountsService) {
				m.On("CompleteConnect", mock.Anything, "abc", "signed").Return(testUser, nil)
			},
			contains: []string{`"success":true`, `"username":"octocat"`, "GitHub connected successfully!"},
		},
		{
			name:  "invalid state",
			query: "?code=abc&state=forged",
			setup: func(m *githubaccounts.MockGitHubAccountsService) {
				m.On("CompleteConnect", mock.Anything, "abc", "forged").
					Return(nil, errors.Join(core.ErrInvalidOAuthState, errors.New("token is expired")))
			},
			contains:    []string{`"success":false`, "Invalid state parameter"},
			notContains: []string{"token is expired"},
		},
		{
			name:  "conflict",
			query: "?code=abc&state=signed",
			setup: func(m *githubaccounts.MockGitHubAccountsService) {
				m.On("CompleteConnect", mock.Anything, "abc", "signed").Return(nil, core.ErrGitHubAccountConflict)
			},
			contains: []string{"This GitHub account is already connected to another user"},
		},
		{
			name:     "user denied access",
			query:    "?error=access_denied&error_description=The+user+has+denied+your+application+access.",
			setup:    func(m *githubaccounts.MockGitHubAccountsService) {},
			contains: []string{`"success":false`, "The user has denied your application access."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHandlerTest(t)
			tt.setup(env.accountsService)

			rec := httptest.NewRecorder()
			env.http.HandleGitHubCallback(rec, httptest.NewRequest(http.MethodGet, "/settings/github/callback"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			page := rec.Body.String()
			assert.Contains(t, page, "window.opener.postMessage(")
			for _, s := range tt.contains {
				assert.Contains(t, page, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, page, s)
			}
		})
	}
}

func TestRenderPopup_EscapesMessage(t *testing.T) {
	page, err := renderPopupError(`</script><script>alert(1)</script>`)
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<script>alert(1)</script>")
}

func TestGitHubHTTPHandler_HandleGitHubSignIn(t *testing.T) {
	validBody := `{"email":" Dev@Example.com ","github_uid":"583231","github_username":"octocat","github_access_token":"gho_token"}`
	credential := models.GitHubCredential{UID: "583231", AccessToken: core.NewSecret("gho_token"), Username: "octocat"}

	tests := []struct {
		name     string
		body     string
		setup    func(*users.MockUsersService)
		expected int
	}{
		{
			name: "existing user",
			body: validBody,
			setup: func(m *users.MockUsersService) {
				m.On("SignInWithGitHub", mock.Anything, " Dev@Example.com ", credential).Return(testUser, false, nil)
			},
			expected: http.StatusOK,
		},
		{
			name: "new user",
			body: validBody,
			setup: func(m *users.MockUsersService) {
				m.On("SignInWithGitHub", mock.Anything, " Dev@Example.com ", credential).Return(testUser, true, nil)
			},
			expected: http.StatusCreated,
		},
		{
			name: "conflict",
			body: validBody,
			setup: func(m *users.MockUsersService) {
				m.On("SignInWithGitHub", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, false, core.ErrGitHubAccountConflict)
			},
			expected: http.StatusConflict,
		},
		{
			name:     "missing email",
			body:     `{"github_uid":"1","github_username":"x","github_access_token":"t"}`,
			setup:    func(m *users.MockUsersService) {},
			expected: http.StatusBadRequest,
		},
		{
			name:     "non-numeric uid",
			body:     `{"email":"a@b.c","github_uid":"abc","github_username":"x","github_access_token":"t"}`,
			setup:    func(m *users.MockUsersService) {},
			expected: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			body:     `{`,
			setup:    func(m *users.MockUsersService) {},
			expected: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHandlerTest(t)
			tt.setup(env.usersService)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/internal/github_oauth", strings.NewReader(tt.body))
			env.http.HandleGitHubSignIn(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
			assert.NotContains(t, rec.Body.String(), "gho_token")
		})
	}
}

func TestGitHubHTTPHandler_Integrations(t *testing.T) {
	integration := &models.GitHubIntegration{
		ID:               "ghi_01G0EZ1XTM37C5X11SQTDNCTM3",
		CompanyID:        testCompany.ID,
		OrganizationName: "antiwork",
		OrganizationID:   4242,
		InstallationID:   "123",
		Status:           models.GitHubIntegrationStatusActive,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	t.Run("list", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.integrationsService.On("ListGitHubIntegrations", mock.Anything, testCompany.ID).
			Return([]*models.GitHubIntegration{integration}, nil)

		rec := httptest.NewRecorder()
		env.http.HandleListGitHubIntegrations(rec, withUserAndCompany(httptest.NewRequest(http.MethodGet, "/", nil)))

		require.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "antiwork", body[0]["organization_name"])
	})

	t.Run("create", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.integrationsService.On("CreateGitHubIntegration", mock.Anything, testCompany.ID, "123").Return(integration, nil)

		rec := httptest.NewRecorder()
		req := withUserAndCompany(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"installation_id":"123"}`)))
		env.http.HandleCreateGitHubIntegration(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create rejects non-numeric installation", func(t *testing.T) {
		env := setupHandlerTest(t)

		rec := httptest.NewRecorder()
		req := withUserAndCompany(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"installation_id":"abc"}`)))
		env.http.HandleCreateGitHubIntegration(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeJSON(t, rec)["error"], "installation_id")
	})

	deleteRequest := func(id string) *http.Request {
		req := withUserAndCompany(httptest.NewRequest(http.MethodDelete, "/", nil))
		return mux.SetURLVars(req, map[string]string{"id": id})
	}

	t.Run("delete", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.integrationsService.On("DeleteGitHubIntegration", mock.Anything, testCompany.ID, integration.ID).Return(nil)

		rec := httptest.NewRecorder()
		env.http.HandleDeleteGitHubIntegration(rec, deleteRequest(integration.ID))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete unknown", func(t *testing.T) {
		env := setupHandlerTest(t)
		env.integrationsService.On("DeleteGitHubIntegration", mock.Anything, testCompany.ID, integration.ID).
			Return(core.ErrNotFound)

		rec := httptest.NewRecorder()
		env.http.HandleDeleteGitHubIntegration(rec, deleteRequest(integration.ID))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete invalid id", func(t *testing.T) {
		env := setupHandlerTest(t)

		rec := httptest.NewRecorder()
		env.http.HandleDeleteGitHubIntegration(rec, deleteRequest("nope"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGitHubHTTPHandler_HandleHealth(t *testing.T) {
	env := setupHandlerTest(t)
	rec := httptest.NewRecorder()
	env.http.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(context.Background()))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
