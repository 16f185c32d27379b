package github

import (
	"regexp"
	"strconv"

	"github.com/yashranaway/flexile/models"
)

// Anything after the number (a trailing path, query or fragment) is ignored.
var (
	pullRequestURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/pull/(\d+)`)
	issueURLPattern       = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/issues/(\d+)`)
)

// ParsePullRequestURL extracts owner, repo and number from a github.com pull request URL.
// It reports false for anything that does not match, including numbers that overflow int64.
func ParsePullRequestURL(raw string) (models.PullRequestRef, bool) {
	return parseRef(pullRequestURLPattern, raw)
}

// ParseIssueURL is ParsePullRequestURL for /issues/ URLs
func ParseIssueURL(raw string) (models.PullRequestRef, bool) {
	return parseRef(issueURLPattern, raw)
}

func parseRef(pattern *regexp.Regexp, raw string) (models.PullRequestRef, bool) {
	matches := pattern.FindStringSubmatch(raw)
	if matches == nil {
		return models.PullRequestRef{}, false
	}

	number, err := strconv.ParseInt(matches[3], 10, 64)
	if err != nil {
		return models.PullRequestRef{}, false
	}

	return models.PullRequestRef{
		Owner:  matches[1],
		Repo:   matches[2],
		Number: number,
	}, true
}
