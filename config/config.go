package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/yashranaway/flexile/core/log"
)

type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if all required GitHub OAuth configuration is present
func (c GitHubOAuthConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type GitHubAppConfig struct {
	AppID         string
	AppPrivateKey string
}

// IsConfigured returns true if all required GitHub App configuration is present
func (c GitHubAppConfig) IsConfigured() bool {
	return c.AppID != "" && c.AppPrivateKey != ""
}

type GitHubConfig struct {
	OAuth             GitHubOAuthConfig
	App               GitHubAppConfig
	APIBaseURL        string
	OAuthBaseURL      string
	RequestsPerSecond float64
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type SecurityConfig struct {
	TokenEncryptionKey string // base64, 32 bytes
	OAuthStateSecret   string
	InternalAPIToken   string
}

// IsConfigured returns true if all required secrets are present
func (c SecurityConfig) IsConfigured() bool {
	return c.TokenEncryptionKey != "" && c.OAuthStateSecret != "" && c.InternalAPIToken != ""
}

type SlackAlertConfig struct {
	AlertWebhookURL string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	BaseURL            string // Public URL used to build OAuth redirect URIs
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	LogLevel           string
	ServerLogsURL      string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	GitHubConfig   GitHubConfig
	ClerkConfig    ClerkConfig
	SecurityConfig SecurityConfig
	SlackConfig    SlackAlertConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Warnf("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	requestsPerSecond, err := strconv.ParseFloat(getEnvWithDefault("GITHUB_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil || requestsPerSecond <= 0 {
		return nil, fmt.Errorf("GITHUB_REQUESTS_PER_SECOND must be a positive number")
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		BaseURL:            getEnvWithDefault("BASE_URL", "http://localhost:8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		GitHubConfig: GitHubConfig{
			OAuth: GitHubOAuthConfig{
				ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
				ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			},
			App: GitHubAppConfig{
				AppID:         os.Getenv("GITHUB_APP_ID"),
				AppPrivateKey: os.Getenv("GITHUB_APP_PRIVATE_KEY"),
			},
			APIBaseURL:        getEnvWithDefault("GITHUB_API_URL", "https://api.github.com"),
			OAuthBaseURL:      getEnvWithDefault("GITHUB_OAUTH_URL", "https://github.com"),
			RequestsPerSecond: requestsPerSecond,
		},

		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},

		SecurityConfig: SecurityConfig{
			TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
			OAuthStateSecret:   os.Getenv("OAUTH_STATE_SECRET"),
			InternalAPIToken:   os.Getenv("INTERNAL_API_TOKEN"),
		},

		SlackConfig: SlackAlertConfig{
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *AppConfig) validate() error {
	// Token encryption cannot be optional: GitHub tokens must never be stored in cleartext
	if !c.SecurityConfig.IsConfigured() {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY, OAUTH_STATE_SECRET and INTERNAL_API_TOKEN must be set")
	}

	if c.GitHubConfig.OAuth.IsConfigured() {
		log.Infof("✅ GitHub OAuth configured")
	} else {
		log.Warnf("⚠️ GitHub OAuth not configured - account linking will be disabled")
		if c.UseStrictConfig {
			return fmt.Errorf("GitHub OAuth is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if c.GitHubConfig.App.IsConfigured() {
		log.Infof("✅ GitHub App configured")
	} else {
		log.Warnf("⚠️ GitHub App not configured - organization integrations will be disabled")
		if c.UseStrictConfig {
			return fmt.Errorf("GitHub App is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if c.ClerkConfig.IsConfigured() {
		log.Infof("✅ Clerk authentication configured")
	} else {
		log.Warnf("⚠️ Clerk authentication not configured - Dashboard authentication will be disabled")
		if c.UseStrictConfig {
			return fmt.Errorf("clerk authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if c.SlackConfig.AlertWebhookURL == "" {
		log.Infof("📋 Slack alert webhook not set - error alerts will only be logged")
	}

	return nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
