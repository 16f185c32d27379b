package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/services"
)

// AuthProviderGitHub marks users created through GitHub sign-in
const AuthProviderGitHub = "github"

type UsersService struct {
	usersRepo *db.PostgresUsersRepository
	txManager services.TransactionManager
}

func NewUsersService(repo *db.PostgresUsersRepository, txManager services.TransactionManager) *UsersService {
	return &UsersService{usersRepo: repo, txManager: txManager}
}

func (s *UsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	log.Infof("📋 Starting to get or create user for authProvider: %s, authProviderID: %s", authProvider, authProviderID)

	if authProvider == "" {
		return nil, fmt.Errorf("auth_provider cannot be empty")
	}
	if authProviderID == "" {
		return nil, fmt.Errorf("auth_provider_id cannot be empty")
	}

	var user *models.User
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		maybeUser, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID, true)
		if err != nil {
			return err
		}
		if existing, ok := maybeUser.Get(); ok {
			user = existing
			return nil
		}

		user, err = s.usersRepo.CreateUser(ctx, authProvider, authProviderID, normalizeEmail(email))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	log.Infof("📋 Completed successfully - retrieved/created user with ID: %s", user.ID)
	return user, nil
}

func (s *UsersService) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.User](), fmt.Errorf("user ID must be a valid ULID")
	}
	return s.usersRepo.GetUserByID(ctx, id)
}

func (s *UsersService) GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error) {
	email = normalizeEmail(email)
	if email == "" {
		return mo.None[*models.User](), nil
	}
	return s.usersRepo.GetUserByEmail(ctx, email)
}

func (s *UsersService) GetUserByGitHubUID(ctx context.Context, uid string) (mo.Option[*models.User], error) {
	if uid == "" {
		return mo.None[*models.User](), nil
	}
	return s.usersRepo.GetUserByGitHubUID(ctx, uid)
}

// ConnectGitHub links a GitHub identity to the user, overwriting any previous link.
// It fails with core.ErrGitHubAccountConflict before writing when another user holds the uid.
func (s *UsersService) ConnectGitHub(
	ctx context.Context,
	userID string,
	credential models.GitHubCredential,
) (*models.User, error) {
	log.Infof("📋 Starting to connect GitHub account %s (uid: %s) to user: %s", credential.Username, credential.UID, userID)

	if err := validateCredential(credential); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.connectGitHub(ctx, userID, credential)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("📋 Completed successfully - connected GitHub account %s to user: %s", credential.Username, userID)
	return user, nil
}

// connectGitHub must run inside a transaction
func (s *UsersService) connectGitHub(
	ctx context.Context,
	userID string,
	credential models.GitHubCredential,
) (*models.User, error) {
	maybeHolder, err := s.usersRepo.GetUserByGitHubUID(ctx, credential.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to check GitHub account owner: %w", err)
	}
	if holder, ok := maybeHolder.Get(); ok && holder.ID != userID {
		log.Warnf("⚠️ GitHub uid %s is already connected to user %s", credential.UID, holder.ID)
		return nil, core.ErrGitHubAccountConflict
	}

	user, err := s.usersRepo.ConnectGitHub(ctx, userID, credential)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DisconnectGitHub clears uid, token and username together
func (s *UsersService) DisconnectGitHub(ctx context.Context, userID string) (*models.User, error) {
	log.Infof("📋 Starting to disconnect GitHub for user: %s", userID)

	user, err := s.usersRepo.DisconnectGitHub(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to disconnect GitHub: %w", err)
	}

	log.Infof("📋 Completed successfully - disconnected GitHub for user: %s", userID)
	return user, nil
}

func (s *UsersService) IsGitHubConnected(user *models.User) bool {
	return user.IsGitHubConnected()
}

// SignInWithGitHub finds the user by email, then by GitHub uid, and links the credential.
// When neither exists a new user is created already connected; the bool reports creation.
func (s *UsersService) SignInWithGitHub(
	ctx context.Context,
	email string,
	credential models.GitHubCredential,
) (*models.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, false, core.ErrEmailRequired
	}
	if err := validateCredential(credential); err != nil {
		return nil, false, err
	}

	log.Infof("📋 Starting GitHub sign-in for GitHub account: %s", credential.Username)

	var (
		user    *models.User
		created bool
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.findSignInUser(ctx, email, credential.UID)
		if err != nil {
			return err
		}

		userID := ""
		if found, ok := existing.Get(); ok {
			userID = found.ID
		} else {
			newUser, err := s.usersRepo.CreateUser(ctx, AuthProviderGitHub, credential.UID, email)
			if err != nil {
				return err
			}
			userID = newUser.ID
			created = true
		}

		user, err = s.connectGitHub(ctx, userID, credential)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	log.Infof("📋 Completed successfully - GitHub sign-in for user: %s (created: %t)", user.ID, created)
	return user, created, nil
}

func (s *UsersService) findSignInUser(ctx context.Context, email, uid string) (mo.Option[*models.User], error) {
	byEmail, err := s.usersRepo.GetUserByEmail(ctx, email)
	if err != nil || byEmail.IsPresent() {
		return byEmail, err
	}
	return s.usersRepo.GetUserByGitHubUID(ctx, uid)
}

func validateCredential(credential models.GitHubCredential) error {
	if credential.UID == "" {
		return fmt.Errorf("GitHub uid cannot be empty")
	}
	if credential.AccessToken.IsEmpty() {
		return fmt.Errorf("GitHub access token cannot be empty")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
