package models

import (
	"time"
)

type GitHubIntegrationStatus string

const (
	GitHubIntegrationStatusActive   GitHubIntegrationStatus = "active"
	GitHubIntegrationStatusInactive GitHubIntegrationStatus = "inactive"
)

type GitHubIntegration struct {
	ID               string                  `db:"id"                json:"id"`
	CompanyID        string                  `db:"company_id"        json:"company_id"`
	OrganizationName string                  `db:"organization_name" json:"organization_name"`
	OrganizationID   int64                   `db:"organization_id"   json:"organization_id"`
	InstallationID   string                  `db:"installation_id"   json:"installation_id"`
	Status           GitHubIntegrationStatus `db:"status"            json:"status"`
	DeletedAt        *time.Time              `db:"deleted_at"        json:"deleted_at"`
	CreatedAt        time.Time               `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time               `db:"updated_at"        json:"updated_at"`
}

// IsActive reports whether the integration may satisfy an org-membership check
func (i *GitHubIntegration) IsActive() bool {
	return i != nil && i.Status == GitHubIntegrationStatusActive && i.DeletedAt == nil
}
