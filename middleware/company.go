package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yashranaway/flexile/appctx"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/services"
)

// CompanyMiddleware scopes a request to the {company_id} path variable.
// It must run after WithAuth.
type CompanyMiddleware struct {
	companiesService services.CompaniesService
}

func NewCompanyMiddleware(companiesService services.CompaniesService) *CompanyMiddleware {
	return &CompanyMiddleware{companiesService: companiesService}
}

func (m *CompanyMiddleware) WithCompany(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := appctx.GetUser(r.Context())
		if !ok {
			log.Errorf("❌ User not found in context")
			writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
			return
		}

		companyID := mux.Vars(r)["company_id"]
		if companyID == "" {
			writeErrorResponse(w, "company_id is required", http.StatusBadRequest)
			return
		}

		maybeCompany, err := m.companiesService.GetCompanyForUser(r.Context(), companyID, user.ID)
		if err != nil {
			log.Errorf("❌ Failed to get company %s for user %s: %v", companyID, user.ID, err)
			writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}

		company, ok := maybeCompany.Get()
		if !ok {
			// Non-members get the same answer as a missing company
			writeErrorResponse(w, "company not found", http.StatusNotFound)
			return
		}

		next(w, r.WithContext(appctx.SetCompany(r.Context(), company)))
	}
}
