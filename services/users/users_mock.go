package users

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/yashranaway/flexile/models"
)

// MockUsersService is a mock implementation of the UsersService interface
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	args := m.Called(ctx, authProvider, authProviderID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) GetUserByGitHubUID(ctx context.Context, uid string) (mo.Option[*models.User], error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(mo.Option[*models.User]), args.Error(1)
}

func (m *MockUsersService) ConnectGitHub(
	ctx context.Context,
	userID string,
	credential models.GitHubCredential,
) (*models.User, error) {
	args := m.Called(ctx, userID, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) DisconnectGitHub(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersService) IsGitHubConnected(user *models.User) bool {
	args := m.Called(user)
	return args.Bool(0)
}

func (m *MockUsersService) SignInWithGitHub(
	ctx context.Context,
	email string,
	credential models.GitHubCredential,
) (*models.User, bool, error) {
	args := m.Called(ctx, email, credential)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}
