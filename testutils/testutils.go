package testutils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yashranaway/flexile/appctx"
	"github.com/yashranaway/flexile/config"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/models"
)

// TestTokenEncryptionKey is a fixed 32-byte key (base64) used when TOKEN_ENCRYPTION_KEY is unset
const TestTokenEncryptionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../../.env.test") // From services/<pkg>/ directory
	_ = godotenv.Load("../.env.test")
	_ = godotenv.Load(".env.test") // From root directory

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	encryptionKey := os.Getenv("TOKEN_ENCRYPTION_KEY")
	if encryptionKey == "" {
		encryptionKey = TestTokenEncryptionKey
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
		SecurityConfig: config.SecurityConfig{
			TokenEncryptionKey: encryptionKey,
			OAuthStateSecret:   "test-oauth-state-secret",
			InternalAPIToken:   "test-internal-api-token",
		},
	}, nil
}

// SetupTestDB connects to the test database and applies migrations.
// Tests are skipped when no database is configured.
func SetupTestDB(t *testing.T) (*sqlx.DB, *config.AppConfig) {
	t.Helper()

	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("skipping database test: %v", err)
	}

	require.NoError(t, db.RunMigrations(cfg.DatabaseURL, cfg.DatabaseSchema), "Failed to run migrations")

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to create database connection")
	t.Cleanup(func() { dbConn.Close() })

	return dbConn, cfg
}

func NewTestTokenCipher(t *testing.T, cfg *config.AppConfig) *core.TokenCipher {
	t.Helper()

	cipher, err := core.NewTokenCipher(cfg.SecurityConfig.TokenEncryptionKey)
	require.NoError(t, err, "Failed to create token cipher")
	return cipher
}

// CreateTestUser creates a test user with a unique ID to avoid constraint violations
func CreateTestUser(t *testing.T, usersRepo *db.PostgresUsersRepository) *models.User {
	t.Helper()

	testUserID := uuid.New().String()
	email := fmt.Sprintf("user-%s@example.com", testUserID)
	testUser, err := usersRepo.CreateUser(context.Background(), "test", testUserID, email)
	require.NoError(t, err, "Failed to create test user")
	return testUser
}

// CreateTestCompany creates a company with the given members
func CreateTestCompany(
	t *testing.T,
	companiesRepo *db.PostgresCompaniesRepository,
	members ...*models.User,
) *models.Company {
	t.Helper()

	company, err := companiesRepo.CreateCompany(context.Background(), "Test Company "+uuid.New().String()[:8])
	require.NoError(t, err, "Failed to create test company")

	for _, member := range members {
		require.NoError(t, companiesRepo.AddCompanyUser(context.Background(), company.ID, member.ID))
	}
	return company
}

// CreateTestInvoiceWithPRLine creates an invoice with one hourly line item referencing prURL
func CreateTestInvoiceWithPRLine(
	t *testing.T,
	invoicesRepo *db.PostgresInvoicesRepository,
	company *models.Company,
	user *models.User,
	status models.InvoiceStatus,
	prURL string,
) (*models.Invoice, *models.InvoiceLineItem) {
	t.Helper()

	var paidAt *time.Time
	if status == models.InvoiceStatusPaid {
		now := time.Now().UTC().Truncate(time.Second)
		paidAt = &now
	}

	invoice := &models.Invoice{
		ID:            core.NewID("inv"),
		ExternalID:    strings.ReplaceAll(uuid.New().String(), "-", "")[:13],
		CompanyID:     company.ID,
		UserID:        user.ID,
		InvoiceNumber: "INV-" + uuid.New().String()[:6],
		Status:        status,
		PaidAt:        paidAt,
	}
	require.NoError(t, invoicesRepo.CreateInvoice(context.Background(), invoice), "Failed to create test invoice")

	lineItem := &models.InvoiceLineItem{
		ID:                core.NewID("ili"),
		InvoiceID:         invoice.ID,
		Description:       "Work on " + prURL,
		Quantity:          decimal.NewFromInt(90),
		PayRateInSubunits: 6000,
		Hourly:            true,
		GitHubPRURL:       &prURL,
	}
	require.NoError(t, invoicesRepo.CreateInvoiceLineItem(context.Background(), lineItem), "Failed to create line item")

	return invoice, lineItem
}

// UniquePRURL returns a PR URL no other test uses
func UniquePRURL(owner string) string {
	return fmt.Sprintf("https://github.com/%s/repo-%s/pull/%d", owner, uuid.New().String()[:8], time.Now().UnixNano()%100000)
}

// CreateTestContext creates a context with the given user set for testing
func CreateTestContext(user *models.User) context.Context {
	ctx := context.Background()
	return appctx.SetUser(ctx, user)
}
