package invoices

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/models"
)

type InvoicesService struct {
	invoicesRepo *db.PostgresInvoicesRepository
}

func NewInvoicesService(repo *db.PostgresInvoicesRepository) *InvoicesService {
	return &InvoicesService{invoicesRepo: repo}
}

// CheckPaidStatus lists the company's paid-or-paying invoices that bill the exact PR URL.
// It returns None rather than an empty status when nothing matches.
func (s *InvoicesService) CheckPaidStatus(
	ctx context.Context,
	prURL, companyID string,
) (mo.Option[*models.PaidStatus], error) {
	log.Debugf("📋 Starting to check paid status for PR in company: %s", companyID)

	if prURL == "" || companyID == "" {
		return mo.None[*models.PaidStatus](), nil
	}

	lineItems, err := s.invoicesRepo.FindPaidLineItemsByPRURL(ctx, prURL, companyID)
	if err != nil {
		return mo.None[*models.PaidStatus](), fmt.Errorf("failed to check paid status: %w", err)
	}

	if len(lineItems) == 0 {
		log.Debugf("📋 Completed successfully - no paid invoices reference the PR")
		return mo.None[*models.PaidStatus](), nil
	}

	invoices := make([]models.PaidInvoice, 0, len(lineItems))
	for _, item := range lineItems {
		invoices = append(invoices, models.PaidInvoice{
			ExternalID:    item.InvoiceExternalID,
			InvoiceNumber: item.InvoiceNumber,
			PaidAt:        item.PaidAt,
			AmountCents:   item.TotalAmountCents(),
		})
	}

	log.Debugf("📋 Completed successfully - found %d paid invoice line items for the PR", len(invoices))
	return mo.Some(&models.PaidStatus{Paid: true, Invoices: invoices}), nil
}
