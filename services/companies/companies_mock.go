package companies

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

// MockCompaniesService implements CompaniesService for testing
type MockCompaniesService struct {
	mock.Mock
}

func (m *MockCompaniesService) GetCompanyForUser(
	ctx context.Context,
	companyID, userID string,
) (mo.Option[*models.Company], error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return mo.None[*models.Company](), args.Error(1)
	}
	return args.Get(0).(mo.Option[*models.Company]), args.Error(1)
}
