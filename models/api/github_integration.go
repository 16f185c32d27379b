package api

import (
	"time"
)

// GitHubIntegration represents the GitHub organization integration data returned by the API
type GitHubIntegration struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	OrganizationName string    `json:"organization_name"`
	OrganizationID   int64     `json:"organization_id"`
	InstallationID   string    `json:"installation_id"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
