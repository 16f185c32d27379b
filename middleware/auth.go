package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/yashranaway/flexile/appctx"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/services"
)

const authProviderClerk = "clerk"

// ClerkAuthMiddleware handles JWT authentication using Clerk SDK
type ClerkAuthMiddleware struct {
	usersService services.UsersService
	clerkJWKS    *jwks.Client
	clerkUsers   *user.Client
}

// NewClerkAuthMiddleware creates a new authentication middleware instance
func NewClerkAuthMiddleware(usersService services.UsersService, clerkSecretKey string) *ClerkAuthMiddleware {
	config := &clerk.ClientConfig{
		BackendConfig: clerk.BackendConfig{
			Key: clerk.String(clerkSecretKey),
		},
	}

	return &ClerkAuthMiddleware{
		usersService: usersService,
		clerkJWKS:    jwks.NewClient(config),
		clerkUsers:   user.NewClient(config),
	}
}

// WithAuth wraps an HTTP handler with JWT authentication
func (m *ClerkAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		token, ok := bearerToken(r)
		if !ok {
			log.Warnf("❌ Missing or malformed Authorization header")
			writeErrorResponse(w, "missing or invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
			Token:      token,
			JWKSClient: m.clerkJWKS,
		})
		if err != nil {
			log.Warnf("❌ JWT verification failed: %v", err)
			writeErrorResponse(w, "invalid token", http.StatusUnauthorized)
			return
		}

		email, err := m.primaryEmail(r.Context(), claims.Subject)
		if err != nil {
			log.Errorf("❌ Failed to look up Clerk user %s: %v", claims.Subject, err)
			writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}

		appUser, err := m.usersService.GetOrCreateUser(r.Context(), authProviderClerk, claims.Subject, email)
		if err != nil {
			log.Errorf("❌ Failed to get or create user: %v", err)
			writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}

		log.Debugf("✅ User authenticated successfully: %s", appUser.ID)
		next(w, r.WithContext(appctx.SetUser(r.Context(), appUser)))
	}
}

func (m *ClerkAuthMiddleware) primaryEmail(ctx context.Context, clerkUserID string) (string, error) {
	clerkUser, err := m.clerkUsers.Get(ctx, clerkUserID)
	if err != nil {
		return "", fmt.Errorf("failed to get Clerk user: %w", err)
	}

	for _, address := range clerkUser.EmailAddresses {
		if clerkUser.PrimaryEmailAddressID != nil && address.ID == *clerkUser.PrimaryEmailAddressID {
			return address.EmailAddress, nil
		}
	}
	if len(clerkUser.EmailAddresses) > 0 {
		return clerkUser.EmailAddresses[0].EmailAddress, nil
	}
	return "", nil
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Errorf("❌ Failed to encode error response: %v", err)
	}
}
