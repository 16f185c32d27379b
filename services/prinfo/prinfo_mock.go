package prinfo

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

type MockPRInfoService struct {
	mock.Mock
}

func (m *MockPRInfoService) Resolve(
	ctx context.Context,
	rawURL string,
	user *models.User,
	company *models.Company,
) (*models.PRInfoResponse, error) {
	args := m.Called(ctx, rawURL, user, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRInfoResponse), args.Error(1)
}

func (m *MockPRInfoService) PRBelongsToOrg(ctx context.Context, rawURL, companyID string) (bool, error) {
	args := m.Called(ctx, rawURL, companyID)
	return args.Bool(0), args.Error(1)
}
