package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	dbtx "github.com/yashranaway/flexile/db/tx"
	"github.com/yashranaway/flexile/models"
)

const uniqueViolation = "23505"

type PostgresUsersRepository struct {
	db     *sqlx.DB
	schema string
	cipher *core.TokenCipher
}

// Column names for users table
var usersColumns = []string{
	"id",
	"auth_provider",
	"auth_provider_id",
	"email",
	"github_uid",
	"github_access_token",
	"github_username",
	"created_at",
	"updated_at",
}

// userRow mirrors the users table. GitHub columns are nullable and the token is ciphertext.
type userRow struct {
	ID                string         `db:"id"`
	AuthProvider      string         `db:"auth_provider"`
	AuthProviderID    string         `db:"auth_provider_id"`
	Email             string         `db:"email"`
	GitHubUID         sql.NullString `db:"github_uid"`
	GitHubAccessToken sql.NullString `db:"github_access_token"`
	GitHubUsername    sql.NullString `db:"github_username"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func NewPostgresUsersRepository(db *sqlx.DB, schema string, cipher *core.TokenCipher) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db, schema: schema, cipher: cipher}
}

func (r *PostgresUsersRepository) GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error) {
	return r.getUserWhere(ctx, "id = $1", id)
}

// GetUserByEmail matches case-insensitively
func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (mo.Option[*models.User], error) {
	return r.getUserWhere(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *PostgresUsersRepository) GetUserByGitHubUID(ctx context.Context, uid string) (mo.Option[*models.User], error) {
	return r.getUserWhere(ctx, "github_uid = $1", uid)
}

func (r *PostgresUsersRepository) GetUserByAuthProvider(
	ctx context.Context,
	authProvider, authProviderID string,
	forUpdate bool,
) (mo.Option[*models.User], error) {
	where := "auth_provider = $1 AND auth_provider_id = $2"
	if forUpdate {
		where += " FOR UPDATE"
	}
	return r.getUserWhere(ctx, where, authProvider, authProviderID)
}

func (r *PostgresUsersRepository) getUserWhere(
	ctx context.Context,
	where string,
	args ...any,
) (mo.Option[*models.User], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.users 
		WHERE %s`, strings.Join(usersColumns, ", "), r.schema, where)

	var row userRow
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.User](), nil
		}
		return mo.None[*models.User](), fmt.Errorf("failed to get user: %w", err)
	}

	user, err := r.toUser(&row)
	if err != nil {
		return mo.None[*models.User](), err
	}
	return mo.Some(user), nil
}

func (r *PostgresUsersRepository) CreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id",
		"auth_provider",
		"auth_provider_id",
		"email",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(usersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.users (%s) 
		VALUES ($1, $2, $3, $4, NOW(), NOW()) 
		RETURNING %s`, r.schema, columnsStr, returningStr)

	var row userRow
	err := db.QueryRowxContext(ctx, query, core.NewID("u"), authProvider, authProviderID, email).StructScan(&row)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.toUser(&row)
}

// ConnectGitHub writes uid, encrypted token and username in one statement
func (r *PostgresUsersRepository) ConnectGitHub(
	ctx context.Context,
	userID string,
	credential models.GitHubCredential,
) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	encryptedToken, err := r.cipher.Encrypt(credential.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt GitHub token: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s.users 
		SET github_uid = $2, github_access_token = $3, github_username = $4, updated_at = NOW() 
		WHERE id = $1 
		RETURNING %s`, r.schema, strings.Join(usersColumns, ", "))

	var row userRow
	err = db.QueryRowxContext(ctx, query, userID, credential.UID, encryptedToken, credential.Username).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
		}
		// users_github_uid_idx backs the service-level conflict check
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, core.ErrGitHubAccountConflict
		}
		return nil, fmt.Errorf("failed to connect GitHub: %w", err)
	}

	return r.toUser(&row)
}

// DisconnectGitHub clears all three GitHub fields in one statement so none is left behind
func (r *PostgresUsersRepository) DisconnectGitHub(ctx context.Context, userID string) (*models.User, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.users 
		SET github_uid = NULL, github_access_token = NULL, github_username = NULL, updated_at = NOW() 
		WHERE id = $1 
		RETURNING %s`, r.schema, strings.Join(usersColumns, ", "))

	var row userRow
	if err := db.QueryRowxContext(ctx, query, userID).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to disconnect GitHub: %w", err)
	}

	return r.toUser(&row)
}

func (r *PostgresUsersRepository) toUser(row *userRow) (*models.User, error) {
	user := models.User{
		ID:             row.ID,
		AuthProvider:   row.AuthProvider,
		AuthProviderID: row.AuthProviderID,
		Email:          row.Email,
		GitHubUID:      row.GitHubUID.String,
		GitHubUsername: row.GitHubUsername.String,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	token, err := r.cipher.Decrypt(row.GitHubAccessToken.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt GitHub token for user %s: %w", user.ID, err)
	}
	user.GitHubAccessToken = token

	return &user, nil
}
