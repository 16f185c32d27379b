package github

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yashranaway/flexile/models"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected models.PullRequestRef
	}{
		{
			name:     "plain pull request URL",
			raw:      "https://github.com/antiwork/flexile/pull/242",
			expected: models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 242},
		},
		{
			name:     "trailing files path",
			raw:      "https://github.com/antiwork/flexile/pull/242/files",
			expected: models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 242},
		},
		{
			name:     "query string and fragment",
			raw:      "https://github.com/antiwork/flexile/pull/7?diff=split#discussion_r1",
			expected: models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 7},
		},
		{
			name:     "leading zeros are dropped",
			raw:      "https://github.com/octo-org/my.repo/pull/0042",
			expected: models.PullRequestRef{Owner: "octo-org", Repo: "my.repo", Number: 42},
		},
		{
			name:     "mixed case owner is preserved",
			raw:      "https://github.com/AntiWork/Flexile/pull/1",
			expected: models.PullRequestRef{Owner: "AntiWork", Repo: "Flexile", Number: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParsePullRequestURL(tt.raw)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestParsePullRequestURL_NonMatches(t *testing.T) {
	inputs := map[string]string{
		"empty":              "",
		"not a URL":          "pull request 42",
		"http scheme":        "http://github.com/antiwork/flexile/pull/1",
		"wrong host":         "https://gitlab.com/antiwork/flexile/pull/1",
		"subdomain host":     "https://www.github.com/antiwork/flexile/pull/1",
		"uppercase host":     "https://GitHub.com/antiwork/flexile/pull/1",
		"uppercase segment":  "https://github.com/antiwork/flexile/PULL/1",
		"pulls plural":       "https://github.com/antiwork/flexile/pulls/1",
		"missing number":     "https://github.com/antiwork/flexile/pull/",
		"non-digit number":   "https://github.com/antiwork/flexile/pull/abc",
		"negative number":    "https://github.com/antiwork/flexile/pull/-1",
		"missing repo":       "https://github.com/antiwork/pull/1",
		"issue URL":          "https://github.com/antiwork/flexile/issues/1",
		"leading whitespace": " https://github.com/antiwork/flexile/pull/1",
		"overflowing number": "https://github.com/antiwork/flexile/pull/99999999999999999999",
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := ParsePullRequestURL(raw)
				assert.False(t, ok)
			})
		})
	}
}

func TestParseIssueURL(t *testing.T) {
	ref, ok := ParseIssueURL("https://github.com/antiwork/flexile/issues/1234#issuecomment-1")
	assert.True(t, ok)
	assert.Equal(t, models.PullRequestRef{Owner: "antiwork", Repo: "flexile", Number: 1234}, ref)

	_, ok = ParseIssueURL("https://github.com/antiwork/flexile/pull/1234")
	assert.False(t, ok)

	_, ok = ParseIssueURL("https://github.com/antiwork/flexile/issue/1234")
	assert.False(t, ok)

	_, ok = ParseIssueURL("")
	assert.False(t, ok)
}
