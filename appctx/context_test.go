package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashranaway/flexile/models"
)

func TestUserAndCompanyRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUser(ctx)
	assert.False(t, ok)
	_, ok = GetCompany(ctx)
	assert.False(t, ok)

	user := &models.User{ID: "u_1"}
	company := &models.Company{ID: "co_1"}
	ctx = SetCompany(SetUser(ctx, user), company)

	gotUser, ok := GetUser(ctx)
	assert.True(t, ok)
	assert.Same(t, user, gotUser)

	gotCompany, ok := GetCompany(ctx)
	assert.True(t, ok)
	assert.Same(t, company, gotCompany)
}
