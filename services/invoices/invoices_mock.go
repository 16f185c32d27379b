package invoices

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

// MockInvoicesService is a mock implementation of the InvoicesService interface
type MockInvoicesService struct {
	mock.Mock
}

func (m *MockInvoicesService) CheckPaidStatus(
	ctx context.Context,
	prURL, companyID string,
) (mo.Option[*models.PaidStatus], error) {
	args := m.Called(ctx, prURL, companyID)
	return args.Get(0).(mo.Option[*models.PaidStatus]), args.Error(1)
}
