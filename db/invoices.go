package db

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	dbtx "github.com/yashranaway/flexile/db/tx"
	"github.com/yashranaway/flexile/models"
)

type PostgresInvoicesRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresInvoicesRepository(db *sqlx.DB, schema string) *PostgresInvoicesRepository {
	return &PostgresInvoicesRepository{db: db, schema: schema}
}

// FindPaidLineItemsByPRURL returns line items whose stored PR URL equals prURL exactly,
// limited to the company's paid-or-paying invoices that are not deleted
func (r *PostgresInvoicesRepository) FindPaidLineItemsByPRURL(
	ctx context.Context,
	prURL, companyID string,
) ([]*models.PaidLineItem, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	statuses := make([]any, 0, len(models.PaidOrPayingInvoiceStatuses))
	for _, status := range models.PaidOrPayingInvoiceStatuses {
		statuses = append(statuses, string(status))
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		sb.As("i.external_id", "invoice_external_id"),
		"i.invoice_number",
		"i.paid_at",
		"li.quantity",
		"li.pay_rate_in_subunits",
		"li.hourly",
	)
	sb.From(sb.As(r.schema+".invoice_line_items", "li"))
	sb.Join(sb.As(r.schema+".invoices", "i"), "i.id = li.invoice_id")
	sb.Where(
		sb.Equal("li.github_pr_url", prURL),
		sb.Equal("i.company_id", companyID),
		sb.In("i.status", statuses...),
		sb.IsNull("i.deleted_at"),
	)
	sb.OrderBy("i.created_at", "li.id").Asc()

	query, args := sb.Build()

	items := []*models.PaidLineItem{}
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find paid line items: %w", err)
	}

	return items, nil
}

func (r *PostgresInvoicesRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	db := dbtx.GetTransactional(ctx, r.db)

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(r.schema + ".invoices")
	ib.Cols("id", "external_id", "company_id", "user_id", "invoice_number", "status", "paid_at", "deleted_at")
	ib.Values(
		invoice.ID,
		invoice.ExternalID,
		invoice.CompanyID,
		invoice.UserID,
		invoice.InvoiceNumber,
		string(invoice.Status),
		invoice.PaidAt,
		invoice.DeletedAt,
	)
	ib.SQL("RETURNING created_at, updated_at")

	query, args := ib.Build()
	if err := db.QueryRowxContext(ctx, query, args...).Scan(&invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

func (r *PostgresInvoicesRepository) CreateInvoiceLineItem(ctx context.Context, item *models.InvoiceLineItem) error {
	db := dbtx.GetTransactional(ctx, r.db)

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(r.schema + ".invoice_line_items")
	ib.Cols("id", "invoice_id", "description", "quantity", "pay_rate_in_subunits", "hourly", "github_pr_url")
	ib.Values(
		item.ID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.PayRateInSubunits,
		item.Hourly,
		item.GitHubPRURL,
	)

	query, args := ib.Build()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create invoice line item: %w", err)
	}

	return nil
}
