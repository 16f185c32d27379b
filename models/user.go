package models

import (
	"time"

	"github.com/yashranaway/flexile/core"
)

type User struct {
	ID             string    `db:"id"               json:"id"`
	AuthProvider   string    `db:"auth_provider"    json:"auth_provider"`
	AuthProviderID string    `db:"auth_provider_id" json:"auth_provider_id"`
	Email          string    `db:"email"            json:"email"`
	GitHubUID      string    `db:"github_uid"       json:"github_uid"`
	GitHubUsername string    `db:"github_username"  json:"github_username"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updated_at"`

	// Decrypted by the users repository; the column itself holds ciphertext
	GitHubAccessToken core.Secret `db:"-" json:"-"`
}

// IsGitHubConnected requires both the GitHub identity and a usable token.
// A dangling uid without a token reads as disconnected.
func (u *User) IsGitHubConnected() bool {
	if u == nil {
		return false
	}
	return u.GitHubUID != "" && !u.GitHubAccessToken.IsEmpty()
}

// GitHubCredential is the set of fields written together on connect
type GitHubCredential struct {
	UID         string
	AccessToken core.Secret
	Username    string
}
