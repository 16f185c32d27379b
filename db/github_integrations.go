package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"github.com/yashranaway/flexile/core"
	dbtx "github.com/yashranaway/flexile/db/tx"
	"github.com/yashranaway/flexile/models"
)

type PostgresGitHubIntegrationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for github_integrations table
var githubIntegrationsColumns = []string{
	"id",
	"company_id",
	"organization_name",
	"organization_id",
	"installation_id",
	"status",
	"deleted_at",
	"created_at",
	"updated_at",
}

func NewPostgresGitHubIntegrationsRepository(db *sqlx.DB, schema string) *PostgresGitHubIntegrationsRepository {
	return &PostgresGitHubIntegrationsRepository{db: db, schema: schema}
}

func (r *PostgresGitHubIntegrationsRepository) CreateGitHubIntegration(
	ctx context.Context,
	integration *models.GitHubIntegration,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id",
		"company_id",
		"organization_name",
		"organization_id",
		"installation_id",
		"status",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(githubIntegrationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.github_integrations (%s) 
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) 
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		integration.ID,
		integration.CompanyID,
		integration.OrganizationName,
		integration.OrganizationID,
		integration.InstallationID,
		integration.Status,
	).StructScan(integration)
	if err != nil {
		return fmt.Errorf("failed to create github integration: %w", err)
	}

	return nil
}

// GetActiveGitHubIntegration returns the company's live integration; inactive or deleted rows never match
func (r *PostgresGitHubIntegrationsRepository) GetActiveGitHubIntegration(
	ctx context.Context,
	companyID string,
) (mo.Option[*models.GitHubIntegration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(githubIntegrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.github_integrations 
		WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL`, columnsStr, r.schema)

	var integration models.GitHubIntegration
	err := db.GetContext(ctx, &integration, query, companyID, models.GitHubIntegrationStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.GitHubIntegration](), nil
		}
		return mo.None[*models.GitHubIntegration](), fmt.Errorf("failed to get active github integration: %w", err)
	}

	return mo.Some(&integration), nil
}

func (r *PostgresGitHubIntegrationsRepository) ListGitHubIntegrations(
	ctx context.Context,
	companyID string,
) ([]*models.GitHubIntegration, error) {
	if companyID == "" {
		return nil, fmt.Errorf("company ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(githubIntegrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.github_integrations 
		WHERE company_id = $1 AND deleted_at IS NULL 
		ORDER BY created_at DESC`, columnsStr, r.schema)

	integrations := []*models.GitHubIntegration{}
	if err := db.SelectContext(ctx, &integrations, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list github integrations: %w", err)
	}

	return integrations, nil
}

func (r *PostgresGitHubIntegrationsRepository) GetGitHubIntegrationByID(
	ctx context.Context,
	companyID, id string,
) (mo.Option[*models.GitHubIntegration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(githubIntegrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.github_integrations 
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, columnsStr, r.schema)

	var integration models.GitHubIntegration
	if err := db.GetContext(ctx, &integration, query, id, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.GitHubIntegration](), nil
		}
		return mo.None[*models.GitHubIntegration](), fmt.Errorf("failed to get github integration: %w", err)
	}

	return mo.Some(&integration), nil
}

// DeactivateGitHubIntegration soft-deletes one live integration
func (r *PostgresGitHubIntegrationsRepository) DeactivateGitHubIntegration(
	ctx context.Context,
	companyID, id string,
) error {
	if companyID == "" {
		return fmt.Errorf("company ID cannot be empty")
	}
	if id == "" {
		return fmt.Errorf("integration ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.github_integrations 
		SET status = $3, deleted_at = NOW(), updated_at = NOW() 
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`, r.schema)

	result, err := db.ExecContext(ctx, query, id, companyID, models.GitHubIntegrationStatusInactive)
	if err != nil {
		return fmt.Errorf("failed to deactivate github integration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("github integration %s: %w", id, core.ErrNotFound)
	}

	return nil
}

// DeactivateCompanyGitHubIntegrations soft-deletes every live integration of the company
func (r *PostgresGitHubIntegrationsRepository) DeactivateCompanyGitHubIntegrations(
	ctx context.Context,
	companyID string,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.github_integrations 
		SET status = $2, deleted_at = NOW(), updated_at = NOW() 
		WHERE company_id = $1 AND deleted_at IS NULL`, r.schema)

	result, err := db.ExecContext(ctx, query, companyID, models.GitHubIntegrationStatusInactive)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate github integrations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
