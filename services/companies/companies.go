package companies

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/models"
)

type CompaniesService struct {
	companiesRepo *db.PostgresCompaniesRepository
}

func NewCompaniesService(repo *db.PostgresCompaniesRepository) *CompaniesService {
	return &CompaniesService{companiesRepo: repo}
}

// GetCompanyForUser returns None when the company does not exist or the user is not a member
func (s *CompaniesService) GetCompanyForUser(
	ctx context.Context,
	companyID, userID string,
) (mo.Option[*models.Company], error) {
	log.Debugf("📋 Starting to get company %s for user: %s", companyID, userID)

	if !core.IsValidULID(companyID) {
		return mo.None[*models.Company](), nil
	}
	if userID == "" {
		return mo.None[*models.Company](), fmt.Errorf("user ID cannot be empty")
	}

	company, err := s.companiesRepo.GetCompanyForUser(ctx, companyID, userID)
	if err != nil {
		return mo.None[*models.Company](), fmt.Errorf("failed to get company: %w", err)
	}

	log.Debugf("📋 Completed successfully - company %s found: %t", companyID, company.IsPresent())
	return company, nil
}
