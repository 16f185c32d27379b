package models

import (
	"time"

	"github.com/samber/mo"
)

const PullRequestStateMerged = "merged"

// PullRequestRef identifies a PR or issue parsed from a github.com URL
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int64
}

type PaidInvoice struct {
	ExternalID    string
	InvoiceNumber string
	PaidAt        *time.Time
	AmountCents   int64
}

type PaidStatus struct {
	Paid     bool
	Invoices []PaidInvoice
}

// PRInfo is the live GitHub data derived for the acting user
type PRInfo struct {
	Number         int
	Title          string
	State          string
	Merged         bool
	MergedAt       *time.Time
	HTMLURL        string
	AuthorLogin    string
	AuthorVerified bool
	Repository     string
	Org            string
	BountyCents    mo.Option[int64]
}

// PRInfoResponse combines parsed, stored and live data for one PR URL.
// Callers must check Valid before reading any other field.
type PRInfoResponse struct {
	Valid                    bool
	Ref                      PullRequestRef
	RequiresGitHubConnection bool
	AlreadyPaid              mo.Option[*PaidStatus]
	PRInfo                   mo.Option[*PRInfo]
}
