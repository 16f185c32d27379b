package api

import (
	"encoding/json"
	"time"
)

type PaidInvoiceModel struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	PaidAt        *time.Time `json:"paid_at"`
	AmountCents   int64      `json:"amount_cents"`
}

type PaidStatusModel struct {
	Paid     bool               `json:"paid"`
	Invoices []PaidInvoiceModel `json:"invoices"`
}

type PRInfoModel struct {
	Number         int        `json:"number"`
	Title          string     `json:"title"`
	State          string     `json:"state"`
	Merged         bool       `json:"merged"`
	MergedAt       *time.Time `json:"merged_at"`
	HTMLURL        string     `json:"html_url"`
	AuthorLogin    *string    `json:"author_login"`
	AuthorVerified bool       `json:"author_verified"`
	Repository     *string    `json:"repository"`
	Org            string     `json:"org"`
	BountyCents    *int64     `json:"bounty_cents"`
}

type PRInfoResponseModel struct {
	Valid                    bool             `json:"valid"`
	Owner                    string           `json:"owner"`
	Repo                     string           `json:"repo"`
	Number                   int64            `json:"number"`
	RequiresGitHubConnection bool             `json:"requires_github_connection"`
	AlreadyPaid              *PaidStatusModel `json:"already_paid"`
	PRInfo                   *PRInfoModel     `json:"pr_info"`
}

type invalidPRInfoResponse struct {
	Valid bool `json:"valid"`
}

// MarshalJSON renders an invalid response as {"valid": false} with no other fields
func (m PRInfoResponseModel) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(invalidPRInfoResponse{Valid: false})
	}

	type plain PRInfoResponseModel
	return json.Marshal(plain(m))
}
