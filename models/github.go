package models

import (
	"time"
)

// GitHubToken is the result of an OAuth authorization-code exchange
type GitHubToken struct {
	AccessToken string
	TokenType   string
	Scope       string
}

type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type GitHubEmail struct {
	Email      string `json:"email"`
	Primary    bool   `json:"primary"`
	Verified   bool   `json:"verified"`
	Visibility string `json:"visibility"`
}

type GitHubLabel struct {
	Name string `json:"name"`
}

type GitHubAccount struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type GitHubHeadRepository struct {
	FullName string        `json:"full_name"`
	Owner    GitHubAccount `json:"owner"`
}

type GitHubPullRequestHead struct {
	Repo *GitHubHeadRepository `json:"repo"`
	Ref  string                `json:"ref"`
}

// GitHubPullRequest is a per-request snapshot; it is never persisted
type GitHubPullRequest struct {
	Number   int                   `json:"number"`
	Title    string                `json:"title"`
	State    string                `json:"state"`
	Merged   bool                  `json:"merged"`
	MergedAt *time.Time            `json:"merged_at"`
	HTMLURL  string                `json:"html_url"`
	User     *GitHubAccount        `json:"user"`
	Head     GitHubPullRequestHead `json:"head"`
	Labels   []GitHubLabel         `json:"labels"`
}

// AuthorLogin returns the PR author's login, or "" when GitHub omits the user (deleted accounts)
func (pr *GitHubPullRequest) AuthorLogin() string {
	if pr.User == nil {
		return ""
	}
	return pr.User.Login
}

// RepositoryFullName returns the head repository's owner/name, or "" when the fork was deleted
func (pr *GitHubPullRequest) RepositoryFullName() string {
	if pr.Head.Repo == nil {
		return ""
	}
	return pr.Head.Repo.FullName
}

type GitHubIssue struct {
	Number  int           `json:"number"`
	Title   string        `json:"title"`
	State   string        `json:"state"`
	HTMLURL string        `json:"html_url"`
	Labels  []GitHubLabel `json:"labels"`
}

// GitHubInstallation is a GitHub App installation on an organization account
type GitHubInstallation struct {
	ID      int64         `json:"id"`
	Account GitHubAccount `json:"account"`
}
