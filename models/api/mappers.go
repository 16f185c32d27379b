package api

import "github.com/yashranaway/flexile/models"

// DomainUserToAPIUser converts a domain User model to an API UserModel
func DomainUserToAPIUser(domainUser *models.User) *UserModel {
	if domainUser == nil {
		return nil
	}

	return &UserModel{
		ID:             domainUser.ID,
		Email:          domainUser.Email,
		GitHubUsername: optionalString(domainUser.GitHubUsername),
		CreatedAt:      domainUser.CreatedAt,
		UpdatedAt:      domainUser.UpdatedAt,
	}
}

// DomainUserToGitHubConnection renders the settings view of a user's GitHub link
func DomainUserToGitHubConnection(domainUser *models.User) *GitHubConnectionModel {
	return &GitHubConnectionModel{
		Connected: domainUser.IsGitHubConnected(),
		Username:  optionalString(domainUser.GitHubUsername),
		UID:       optionalString(domainUser.GitHubUID),
	}
}

func DomainGitHubIntegrationToAPIGitHubIntegration(integration *models.GitHubIntegration) *GitHubIntegration {
	if integration == nil {
		return nil
	}

	return &GitHubIntegration{
		ID:               integration.ID,
		CompanyID:        integration.CompanyID,
		OrganizationName: integration.OrganizationName,
		OrganizationID:   integration.OrganizationID,
		InstallationID:   integration.InstallationID,
		Status:           string(integration.Status),
		CreatedAt:        integration.CreatedAt,
		UpdatedAt:        integration.UpdatedAt,
	}
}

func DomainGitHubIntegrationsToAPIGitHubIntegrations(integrations []*models.GitHubIntegration) []*GitHubIntegration {
	result := make([]*GitHubIntegration, 0, len(integrations))
	for _, integration := range integrations {
		result = append(result, DomainGitHubIntegrationToAPIGitHubIntegration(integration))
	}
	return result
}

// DomainPRInfoResponseToAPI converts a resolver result into its wire shape
func DomainPRInfoResponseToAPI(resp *models.PRInfoResponse) *PRInfoResponseModel {
	if resp == nil || !resp.Valid {
		return &PRInfoResponseModel{Valid: false}
	}

	model := &PRInfoResponseModel{
		Valid:                    true,
		Owner:                    resp.Ref.Owner,
		Repo:                     resp.Ref.Repo,
		Number:                   resp.Ref.Number,
		RequiresGitHubConnection: resp.RequiresGitHubConnection,
	}

	if paid, ok := resp.AlreadyPaid.Get(); ok && paid != nil {
		invoices := make([]PaidInvoiceModel, 0, len(paid.Invoices))
		for _, inv := range paid.Invoices {
			invoices = append(invoices, PaidInvoiceModel{
				ID:            inv.ExternalID,
				InvoiceNumber: inv.InvoiceNumber,
				PaidAt:        inv.PaidAt,
				AmountCents:   inv.AmountCents,
			})
		}
		model.AlreadyPaid = &PaidStatusModel{Paid: paid.Paid, Invoices: invoices}
	}

	if info, ok := resp.PRInfo.Get(); ok && info != nil {
		model.PRInfo = &PRInfoModel{
			Number:         info.Number,
			Title:          info.Title,
			State:          info.State,
			Merged:         info.Merged,
			MergedAt:       info.MergedAt,
			HTMLURL:        info.HTMLURL,
			AuthorLogin:    optionalString(info.AuthorLogin),
			AuthorVerified: info.AuthorVerified,
			Repository:     optionalString(info.Repository),
			Org:            info.Org,
			BountyCents:    info.BountyCents.ToPointer(),
		}
	}

	return model
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
