package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusReceived       InvoiceStatus = "received"
	InvoiceStatusApproved       InvoiceStatus = "approved"
	InvoiceStatusProcessing     InvoiceStatus = "processing"
	InvoiceStatusPaymentPending InvoiceStatus = "payment_pending"
	InvoiceStatusPaid           InvoiceStatus = "paid"
	InvoiceStatusRejected       InvoiceStatus = "rejected"
	InvoiceStatusFailed         InvoiceStatus = "failed"
)

// PaidOrPayingInvoiceStatuses are the statuses in which payment has completed or is in flight
var PaidOrPayingInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusProcessing,
	InvoiceStatusPaymentPending,
	InvoiceStatusPaid,
}

type Invoice struct {
	ID            string        `db:"id"             json:"id"`
	ExternalID    string        `db:"external_id"    json:"external_id"`
	CompanyID     string        `db:"company_id"     json:"company_id"`
	UserID        string        `db:"user_id"        json:"user_id"`
	InvoiceNumber string        `db:"invoice_number" json:"invoice_number"`
	Status        InvoiceStatus `db:"status"         json:"status"`
	PaidAt        *time.Time    `db:"paid_at"        json:"paid_at"`
	DeletedAt     *time.Time    `db:"deleted_at"     json:"deleted_at"`
	CreatedAt     time.Time     `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"     json:"updated_at"`
}

type InvoiceLineItem struct {
	ID                string          `db:"id"                   json:"id"`
	InvoiceID         string          `db:"invoice_id"           json:"invoice_id"`
	Description       string          `db:"description"          json:"description"`
	Quantity          decimal.Decimal `db:"quantity"             json:"quantity"`
	PayRateInSubunits int64           `db:"pay_rate_in_subunits" json:"pay_rate_in_subunits"`
	Hourly            bool            `db:"hourly"               json:"hourly"`
	GitHubPRURL       *string         `db:"github_pr_url"        json:"github_pr_url"`
}

var minutesPerHour = decimal.NewFromInt(60)

// TotalAmountCents is the line total rounded up to the next cent.
// Hourly quantities are stored in minutes.
func (li *InvoiceLineItem) TotalAmountCents() int64 {
	total := decimal.NewFromInt(li.PayRateInSubunits).Mul(li.Quantity)
	if li.Hourly {
		// Divide last; Div rounds to a fixed precision and Ceil would pick up the residue
		total = total.Div(minutesPerHour)
	}
	return total.Ceil().IntPart()
}

// PaidLineItem is a line item referencing a PR joined to its paid-or-paying invoice
type PaidLineItem struct {
	InvoiceExternalID string          `db:"invoice_external_id"`
	InvoiceNumber     string          `db:"invoice_number"`
	PaidAt            *time.Time      `db:"paid_at"`
	Quantity          decimal.Decimal `db:"quantity"`
	PayRateInSubunits int64           `db:"pay_rate_in_subunits"`
	Hourly            bool            `db:"hourly"`
}

func (p *PaidLineItem) TotalAmountCents() int64 {
	li := InvoiceLineItem{Quantity: p.Quantity, PayRateInSubunits: p.PayRateInSubunits, Hourly: p.Hourly}
	return li.TotalAmountCents()
}
