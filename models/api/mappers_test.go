package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/models"
)

func TestDomainPRInfoResponseToAPI_Invalid(t *testing.T) {
	model := DomainPRInfoResponseToAPI(&models.PRInfoResponse{Valid: false})

	payload, err := json.Marshal(model)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":false}`, string(payload))
}

func TestDomainPRInfoResponseToAPI_ValidWithoutEnrichment(t *testing.T) {
	model := DomainPRInfoResponseToAPI(&models.PRInfoResponse{
		Valid: true,
		Ref:   models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 242},
	})

	payload, err := json.Marshal(model)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"valid": true,
		"owner": "antiwork",
		"repo": "flexile",
		"number": 242,
		"requires_github_connection": false,
		"already_paid": null,
		"pr_info": null
	}`, string(payload))
}

func TestDomainPRInfoResponseToAPI_Full(t *testing.T) {
	paidAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mergedAt := time.Date(2024, 12, 30, 10, 0, 0, 0, time.UTC)

	model := DomainPRInfoResponseToAPI(&models.PRInfoResponse{
		Valid:                    true,
		Ref:                      models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 1},
		RequiresGitHubConnection: true,
		AlreadyPaid: mo.Some(&models.PaidStatus{
			Paid: true,
			Invoices: []models.PaidInvoice{
				{ExternalID: "ext1", InvoiceNumber: "INV-1", PaidAt: &paidAt, AmountCents: 12000},
			},
		}),
		PRInfo: mo.Some(&models.PRInfo{
			Number:         1,
			Title:          "Add PR links",
			State:          "merged",
			Merged:         true,
			MergedAt:       &mergedAt,
			HTMLURL:        "https://github.com/antiwork/flexile/pull/1",
			AuthorLogin:    "alice",
			AuthorVerified: true,
			Repository:     "antiwork/flexile",
			Org:            "antiwork",
			BountyCents:    mo.Some(int64(10000)),
		}),
	})

	payload, err := json.Marshal(model)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"valid": true,
		"owner": "antiwork",
		"repo": "flexile",
		"number": 1,
		"requires_github_connection": true,
		"already_paid": {
			"paid": true,
			"invoices": [
				{"id": "ext1", "invoice_number": "INV-1", "paid_at": "2025-01-02T03:04:05Z", "amount_cents": 12000}
			]
		},
		"pr_info": {
			"number": 1,
			"title": "Add PR links",
			"state": "merged",
			"merged": true,
			"merged_at": "2024-12-30T10:00:00Z",
			"html_url": "https://github.com/antiwork/flexile/pull/1",
			"author_login": "alice",
			"author_verified": true,
			"repository": "antiwork/flexile",
			"org": "antiwork",
			"bounty_cents": 10000
		}
	}`, string(payload))
}

func TestDomainPRInfoResponseToAPI_NoBountyIsNull(t *testing.T) {
	model := DomainPRInfoResponseToAPI(&models.PRInfoResponse{
		Valid: true,
		Ref:   models.PullRequestRef{Owner: "o", Repo: "r", Number: 2},
		PRInfo: mo.Some(&models.PRInfo{
			Number: 2,
			State:  "open",
			Org:    "o",
		}),
	})

	require.NotNil(t, model.PRInfo)
	assert.Nil(t, model.PRInfo.BountyCents)
	assert.Nil(t, model.PRInfo.AuthorLogin)
	assert.Nil(t, model.PRInfo.Repository)
}

func TestDomainUserToGitHubConnection(t *testing.T) {
	connected := DomainUserToGitHubConnection(&models.User{
		GitHubUID:         "12345",
		GitHubUsername:    "alice",
		GitHubAccessToken: core.NewSecret("t"),
	})
	assert.True(t, connected.Connected)
	assert.Equal(t, "alice", *connected.Username)
	assert.Equal(t, "12345", *connected.UID)

	disconnected := DomainUserToGitHubConnection(&models.User{})
	assert.False(t, disconnected.Connected)
	assert.Nil(t, disconnected.Username)
	assert.Nil(t, disconnected.UID)
}

func TestDomainUserToAPIUser_DoesNotLeakToken(t *testing.T) {
	model := DomainUserToAPIUser(&models.User{
		ID:                "u_01G0EZ1XTM37C5X11SQTDNCTM1",
		Email:             "alice@example.com",
		GitHubAccessToken: core.NewSecret("gho_secret"),
	})

	payload, err := json.Marshal(model)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "gho_secret")
	assert.Nil(t, DomainUserToAPIUser(nil))
}
