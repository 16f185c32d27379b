package appctx

import (
	"context"

	"github.com/yashranaway/flexile/models"
)

// Context keys for storing request-scoped entities
type contextKey string

const (
	UserContextKey    contextKey = "user"
	CompanyContextKey contextKey = "company"
)

// SetUser adds the user entity to the request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUser extracts the user entity from the request context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// SetCompany adds the company the request is scoped to
func SetCompany(ctx context.Context, company *models.Company) context.Context {
	return context.WithValue(ctx, CompanyContextKey, company)
}

func GetCompany(ctx context.Context) (*models.Company, bool) {
	company, ok := ctx.Value(CompanyContextKey).(*models.Company)
	return company, ok
}
