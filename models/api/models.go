package api

import (
	"time"
)

// UserModel represents the user data returned by the API
type UserModel struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	GitHubUsername *string   `json:"github_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GitHubConnectionModel is the settings view of a user's GitHub link
type GitHubConnectionModel struct {
	Connected bool    `json:"connected"`
	Username  *string `json:"username"`
	UID       *string `json:"uid"`
}

type AuthorizationURLModel struct {
	AuthorizationURL string `json:"authorization_url"`
}

type ErrorModel struct {
	Error string `json:"error"`
}
