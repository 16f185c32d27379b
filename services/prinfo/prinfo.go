package prinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"github.com/yashranaway/flexile/clients"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/metrics"
	"github.com/yashranaway/flexile/models"
	"github.com/yashranaway/flexile/services"
	"github.com/yashranaway/flexile/utils/github"
)

type PRInfoService struct {
	githubClient        clients.GitHubClient
	integrationsService services.GitHubIntegrationsService
	invoicesService     services.InvoicesService
}

func NewPRInfoService(
	githubClient clients.GitHubClient,
	integrationsService services.GitHubIntegrationsService,
	invoicesService services.InvoicesService,
) *PRInfoService {
	return &PRInfoService{
		githubClient:        githubClient,
		integrationsService: integrationsService,
		invoicesService:     invoicesService,
	}
}

// Resolve turns a PR URL into the data a contractor needs while invoicing it.
// The org check, the paid lookup and the GitHub fetch run concurrently. A failed org lookup
// counts as "not in the org" and GitHub failures degrade to an absent PRInfo. A failed paid
// lookup fails the request so a billed PR is never reported as unpaid.
func (s *PRInfoService) Resolve(
	ctx context.Context,
	rawURL string,
	user *models.User,
	company *models.Company,
) (*models.PRInfoResponse, error) {
	ref, ok := github.ParsePullRequestURL(rawURL)
	if !ok {
		metrics.PRInfoResolutionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return &models.PRInfoResponse{Valid: false}, nil
	}

	log.Infof("📋 Starting to resolve PR info for %s/%s#%d", ref.Owner, ref.Repo, ref.Number)

	connected := user.IsGitHubConnected()

	var (
		belongsToOrg bool
		alreadyPaid  = mo.None[*models.PaidStatus]()
		prInfo       = mo.None[*models.PRInfo]()
	)

	g, gctx := errgroup.WithContext(ctx)
	if company != nil {
		g.Go(func() error {
			belongs, err := s.belongsToOrg(gctx, ref, company.ID)
			if err != nil {
				log.Warnf("⚠️ Could not check organization for %s/%s#%d, treating as outside org: %v",
					ref.Owner, ref.Repo, ref.Number, err)
				return nil
			}
			belongsToOrg = belongs
			return nil
		})
		g.Go(func() error {
			paid, err := s.invoicesService.CheckPaidStatus(gctx, rawURL, company.ID)
			if err != nil {
				return fmt.Errorf("failed to check paid status: %w", err)
			}
			alreadyPaid = paid
			return nil
		})
	}
	if connected {
		g.Go(func() error {
			prInfo = s.fetchPRInfo(gctx, ref, user)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.PRInfoResolutionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Errorf("❌ Failed to resolve PR info for %s/%s#%d: %v", ref.Owner, ref.Repo, ref.Number, err)
		return nil, err
	}

	response := &models.PRInfoResponse{
		Valid:                    true,
		Ref:                      ref,
		RequiresGitHubConnection: belongsToOrg && !connected,
		AlreadyPaid:              alreadyPaid,
		PRInfo:                   prInfo,
	}

	outcome := metrics.OutcomeNoPRInfo
	if prInfo.IsPresent() {
		outcome = metrics.OutcomePRInfo
	}
	metrics.PRInfoResolutionsTotal.WithLabelValues(outcome).Inc()

	log.Infof("📋 Completed successfully - resolved PR info for %s/%s#%d (belongs to org: %t, paid: %t, pr info: %t)",
		ref.Owner, ref.Repo, ref.Number, belongsToOrg, alreadyPaid.IsPresent(), prInfo.IsPresent())
	return response, nil
}

// PRBelongsToOrg reports whether the PR's owner is the company's connected GitHub organization
func (s *PRInfoService) PRBelongsToOrg(ctx context.Context, rawURL, companyID string) (bool, error) {
	ref, ok := github.ParsePullRequestURL(rawURL)
	if !ok {
		return false, nil
	}
	return s.belongsToOrg(ctx, ref, companyID)
}

func (s *PRInfoService) belongsToOrg(ctx context.Context, ref models.PullRequestRef, companyID string) (bool, error) {
	maybeIntegration, err := s.integrationsService.GetActiveGitHubIntegration(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to get GitHub integration: %w", err)
	}

	integration, ok := maybeIntegration.Get()
	if !ok || !integration.IsActive() {
		return false, nil
	}
	return strings.EqualFold(ref.Owner, integration.OrganizationName), nil
}

func (s *PRInfoService) fetchPRInfo(ctx context.Context, ref models.PullRequestRef, user *models.User) mo.Option[*models.PRInfo] {
	maybePR, err := s.githubClient.FetchPullRequest(ctx, user.GitHubAccessToken, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		log.Warnf("⚠️ Failed to fetch PR %s/%s#%d from GitHub: %v", ref.Owner, ref.Repo, ref.Number, err)
		return mo.None[*models.PRInfo]()
	}

	pr, ok := maybePR.Get()
	if !ok {
		log.Infof("📋 PR %s/%s#%d not found or not accessible for user %s", ref.Owner, ref.Repo, ref.Number, user.ID)
		return mo.None[*models.PRInfo]()
	}

	return mo.Some(buildPRInfo(pr, ref, user))
}

func buildPRInfo(pr *models.GitHubPullRequest, ref models.PullRequestRef, user *models.User) *models.PRInfo {
	state := pr.State
	if pr.Merged {
		state = models.PullRequestStateMerged
	}

	authorLogin := pr.AuthorLogin()

	return &models.PRInfo{
		Number:         pr.Number,
		Title:          pr.Title,
		State:          state,
		Merged:         pr.Merged,
		MergedAt:       pr.MergedAt,
		HTMLURL:        pr.HTMLURL,
		AuthorLogin:    authorLogin,
		AuthorVerified: isSameLogin(authorLogin, user.GitHubUsername),
		Repository:     pr.RepositoryFullName(),
		Org:            ref.Owner,
		BountyCents:    github.ExtractBountyCents(pr.Labels),
	}
}

// Two missing logins never verify each other
func isSameLogin(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}
