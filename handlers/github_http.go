package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/yashranaway/flexile/appctx"
	"github.com/yashranaway/flexile/clients/github"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/middleware"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/models/api"
)

var validate = newValidator()

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type GitHubHTTPHandler struct {
	handler *GitHubAPIHandler
}

func NewGitHubHTTPHandler(handler *GitHubAPIHandler) *GitHubHTTPHandler {
	return &GitHubHTTPHandler{
		handler: handler,
	}
}

type GitHubSignInRequest struct {
	Email             string `json:"email"`
	GitHubUID         string `json:"github_uid"          validate:"required,numeric"`
	GitHubUsername    string `json:"github_username"     validate:"required"`
	GitHubAccessToken string `json:"github_access_token" validate:"required"`
}

type GitHubIntegrationRequest struct {
	InstallationID string `json:"installation_id" validate:"required,numeric"`
}

func (h *GitHubHTTPHandler) HandleGetPRInfo(w http.ResponseWriter, r *http.Request) {
	user, company, ok := h.userAndCompany(w, r)
	if !ok {
		return
	}

	prURL := strings.TrimSpace(r.URL.Query().Get("pr_url"))
	if prURL == "" {
		h.writeError(w, http.StatusBadRequest, "PR URL is required")
		return
	}

	response, err := h.handler.GetPRInfo(r.Context(), prURL, user, company)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to resolve PR info")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainPRInfoResponseToAPI(response))
}

func (h *GitHubHTTPHandler) HandleGetGitHubConnection(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Errorf("❌ User not found in context")
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainUserToGitHubConnection(user))
}

func (h *GitHubHTTPHandler) HandleConnectGitHub(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Errorf("❌ User not found in context")
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	authorizationURL, err := h.handler.StartGitHubConnect(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err, "failed to start GitHub connection")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, &api.AuthorizationURLModel{AuthorizationURL: authorizationURL})
}

// HandleGitHubCallback always answers with the popup page; failures are posted to the opener
func (h *GitHubHTTPHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var page []byte
	var err error
	if oauthError := query.Get("error"); oauthError != "" {
		// The user denied access on GitHub's consent screen
		message := query.Get("error_description")
		if message == "" {
			message = oauthError
		}
		page, err = renderPopupError(message)
	} else {
		user, connectErr := h.handler.CompleteGitHubConnect(r.Context(), query.Get("code"), query.Get("state"))
		if connectErr != nil {
			page, err = renderPopupError(popupErrorMessage(connectErr))
		} else {
			page, err = renderPopupSuccess(user.GitHubUsername)
		}
	}

	if err != nil {
		log.Errorf("❌ Failed to render GitHub popup: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		log.Errorf("❌ Failed to write GitHub popup: %v", err)
	}
}

func (h *GitHubHTTPHandler) HandleDisconnectGitHub(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Errorf("❌ User not found in context")
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	updated, err := h.handler.DisconnectGitHub(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, err, "failed to disconnect GitHub")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainUserToGitHubConnection(updated))
}

func (h *GitHubHTTPHandler) HandleGitHubSignIn(w http.ResponseWriter, r *http.Request) {
	var req GitHubSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("❌ Failed to parse request body: %v", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		h.writeError(w, http.StatusBadRequest, core.ErrEmailRequired.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, created, err := h.handler.SignInWithGitHub(r.Context(), req.Email, models.GitHubCredential{
		UID:         req.GitHubUID,
		AccessToken: core.NewSecret(req.GitHubAccessToken),
		Username:    req.GitHubUsername,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to sign in with GitHub")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSONResponse(w, status, api.DomainUserToAPIUser(user))
}

func (h *GitHubHTTPHandler) HandleListGitHubIntegrations(w http.ResponseWriter, r *http.Request) {
	_, company, ok := h.userAndCompany(w, r)
	if !ok {
		return
	}

	integrations, err := h.handler.ListGitHubIntegrations(r.Context(), company)
	if err != nil {
		h.writeServiceError(w, err, "failed to get GitHub integrations")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainGitHubIntegrationsToAPIGitHubIntegrations(integrations))
}

func (h *GitHubHTTPHandler) HandleCreateGitHubIntegration(w http.ResponseWriter, r *http.Request) {
	_, company, ok := h.userAndCompany(w, r)
	if !ok {
		return
	}

	var req GitHubIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("❌ Failed to parse request body: %v", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	integration, err := h.handler.CreateGitHubIntegration(r.Context(), company, req.InstallationID)
	if err != nil {
		h.writeServiceError(w, err, "failed to create GitHub integration")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, api.DomainGitHubIntegrationToAPIGitHubIntegration(integration))
}

func (h *GitHubHTTPHandler) HandleDeleteGitHubIntegration(w http.ResponseWriter, r *http.Request) {
	_, company, ok := h.userAndCompany(w, r)
	if !ok {
		return
	}

	integrationID := mux.Vars(r)["id"]
	if !core.IsValidULID(integrationID) {
		log.Warnf("❌ Missing or invalid integration ID in URL path")
		h.writeError(w, http.StatusBadRequest, "integration ID must be a valid ULID")
		return
	}

	if err := h.handler.DeleteGitHubIntegration(r.Context(), company, integrationID); err != nil {
		h.writeServiceError(w, err, "failed to delete GitHub integration")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GitHubHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *GitHubHTTPHandler) SetupEndpoints(
	router *mux.Router,
	authMiddleware *middleware.ClerkAuthMiddleware,
	companyMiddleware *middleware.CompanyMiddleware,
	internalMiddleware *middleware.InternalAPIMiddleware,
) {
	log.Infof("🚀 Registering GitHub API endpoints")

	withCompany := func(next http.HandlerFunc) http.HandlerFunc {
		return authMiddleware.WithAuth(companyMiddleware.WithCompany(next))
	}

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	router.HandleFunc("/companies/{company_id}/pr_info", withCompany(h.HandleGetPRInfo)).Methods("GET")
	log.Infof("✅ GET /companies/{company_id}/pr_info endpoint registered")

	router.HandleFunc("/settings/github", authMiddleware.WithAuth(h.HandleGetGitHubConnection)).Methods("GET")
	router.HandleFunc("/settings/github", authMiddleware.WithAuth(h.HandleDisconnectGitHub)).Methods("DELETE")
	router.HandleFunc("/settings/github/connect", authMiddleware.WithAuth(h.HandleConnectGitHub)).Methods("POST")
	// GitHub redirects the browser here; the signed state identifies the user
	router.HandleFunc("/settings/github/callback", h.HandleGitHubCallback).Methods("GET")
	log.Infof("✅ /settings/github endpoints registered")

	router.HandleFunc("/internal/github_oauth", internalMiddleware.WithInternalAPIToken(h.HandleGitHubSignIn)).
		Methods("POST")
	log.Infof("✅ POST /internal/github_oauth endpoint registered")

	router.HandleFunc("/companies/{company_id}/github/integrations", withCompany(h.HandleListGitHubIntegrations)).
		Methods("GET")
	router.HandleFunc("/companies/{company_id}/github/integrations", withCompany(h.HandleCreateGitHubIntegration)).
		Methods("POST")
	router.HandleFunc("/companies/{company_id}/github/integrations/{id}", withCompany(h.HandleDeleteGitHubIntegration)).
		Methods("DELETE")
	log.Infof("✅ /companies/{company_id}/github/integrations endpoints registered")
}

func (h *GitHubHTTPHandler) userAndCompany(w http.ResponseWriter, r *http.Request) (*models.User, *models.Company, bool) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Errorf("❌ User not found in context")
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, nil, false
	}
	company, ok := appctx.GetCompany(r.Context())
	if !ok {
		log.Errorf("❌ Company not found in context")
		h.writeError(w, http.StatusNotFound, "company not found")
		return nil, nil, false
	}
	return user, company, true
}

func (h *GitHubHTTPHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrGitHubNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrGitHubAccountConflict):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrEmailRequired):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case core.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, "not found")
	default:
		var oauthErr *github.OAuthError
		var apiErr *github.APIError
		if errors.As(err, &oauthErr) || errors.As(err, &apiErr) {
			h.writeError(w, http.StatusBadGateway, fallback)
			return
		}
		h.writeError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *GitHubHTTPHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSONResponse(w, statusCode, &api.ErrorModel{Error: message})
}

func (h *GitHubHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("❌ Failed to encode JSON response: %v", err)
	}
}

func popupErrorMessage(err error) string {
	var oauthErr *github.OAuthError
	var apiErr *github.APIError
	switch {
	case errors.Is(err, core.ErrInvalidOAuthState):
		return core.ErrInvalidOAuthState.Error()
	case errors.Is(err, core.ErrGitHubAccountConflict), errors.Is(err, core.ErrGitHubNotConfigured):
		return err.Error()
	case errors.As(err, &oauthErr):
		return oauthErr.Error()
	case errors.As(err, &apiErr):
		return "Failed to fetch GitHub user"
	default:
		return "Failed to connect GitHub account"
	}
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		field := validationErrors[0]
		return field.Field() + " is invalid (" + field.Tag() + ")"
	}
	return "invalid request"
}
