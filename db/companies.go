package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	dbtx "github.com/yashranaway/flexile/db/tx"
	"github.com/yashranaway/flexile/models"
)

type PostgresCompaniesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for companies table
var companiesColumns = []string{
	"id",
	"name",
	"created_at",
	"updated_at",
}

func NewPostgresCompaniesRepository(db *sqlx.DB, schema string) *PostgresCompaniesRepository {
	return &PostgresCompaniesRepository{db: db, schema: schema}
}

func (r *PostgresCompaniesRepository) CreateCompany(ctx context.Context, name string) (*models.Company, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.companies (id, name, created_at, updated_at) 
		VALUES ($1, $2, NOW(), NOW()) 
		RETURNING %s`, r.schema, strings.Join(companiesColumns, ", "))

	company := &models.Company{}
	if err := db.QueryRowxContext(ctx, query, core.NewID("co"), name).StructScan(company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	return company, nil
}

func (r *PostgresCompaniesRepository) AddCompanyUser(ctx context.Context, companyID, userID string) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.company_users (company_id, user_id, created_at) 
		VALUES ($1, $2, NOW()) 
		ON CONFLICT (company_id, user_id) DO NOTHING`, r.schema)

	if _, err := db.ExecContext(ctx, query, companyID, userID); err != nil {
		return fmt.Errorf("failed to add company user: %w", err)
	}

	return nil
}

// GetCompanyForUser returns the company only when the user belongs to it
func (r *PostgresCompaniesRepository) GetCompanyForUser(
	ctx context.Context,
	companyID, userID string,
) (mo.Option[*models.Company], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columns := make([]string, 0, len(companiesColumns))
	for _, column := range companiesColumns {
		columns = append(columns, "c."+column)
	}

	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.companies c 
		JOIN %s.company_users cu ON cu.company_id = c.id 
		WHERE c.id = $1 AND cu.user_id = $2`, strings.Join(columns, ", "), r.schema, r.schema)

	var company models.Company
	if err := db.GetContext(ctx, &company, query, companyID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Company](), nil
		}
		return mo.None[*models.Company](), fmt.Errorf("failed to get company for user: %w", err)
	}

	return mo.Some(&company), nil
}
