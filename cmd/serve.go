package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	githubclient "github.com/yashranaway/flexile/clients/github"
	"github.com/yashranaway/flexile/config"
	"github.com/yashranaway/flexile/core"
	"github.com/yashranaway/flexile/core/log"
	"github.com/yashranaway/flexile/db"
	"github.com/yashranaway/flexile/handlers"
	"github.com/yashranaway/flexile/middleware"
	"github.com/yashranaway/flexile/services"
	"github.com/yashranaway/flexile/services/companies"
	githubintegrations "github.com/yashranaway/flexile/services/github_integrations"
	"github.com/yashranaway/flexile/services/githubaccounts"
	"github.com/yashranaway/flexile/services/invoices"
	"github.com/yashranaway/flexile/services/oauthstate"
	"github.com/yashranaway/flexile/services/prinfo"
	"github.com/yashranaway/flexile/services/txmanager"
	"github.com/yashranaway/flexile/services/users"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

// applyConfiguredLogLevel uses LOG_LEVEL unless --log-level was given
func applyConfiguredLogLevel(cfg *config.AppConfig) {
	if logLevel != "" {
		return
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("⚠️ Invalid LOG_LEVEL %q, keeping info", cfg.LogLevel)
	}
}

func runServer() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyConfiguredLogLevel(cfg)

	if migrateOnStart {
		if err := db.RunMigrations(cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
			return err
		}
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "flexile",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	tokenCipher, err := core.NewTokenCipher(cfg.SecurityConfig.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token encryption: %w", err)
	}

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema, tokenCipher)
	companiesRepo := db.NewPostgresCompaniesRepository(dbConn, cfg.DatabaseSchema)
	githubIntegrationsRepo := db.NewPostgresGitHubIntegrationsRepository(dbConn, cfg.DatabaseSchema)
	invoicesRepo := db.NewPostgresInvoicesRepository(dbConn, cfg.DatabaseSchema)

	txManager := txmanager.NewTransactionManager(dbConn)

	githubClient, err := githubclient.NewGitHubClient(cfg.GitHubConfig)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	usersService := users.NewUsersService(usersRepo, txManager)
	companiesService := companies.NewCompaniesService(companiesRepo)
	invoicesService := invoices.NewInvoicesService(invoicesRepo)

	var githubIntegrationsService services.GitHubIntegrationsService
	if cfg.GitHubConfig.App.IsConfigured() {
		githubIntegrationsService = githubintegrations.NewGitHubIntegrationsService(
			githubIntegrationsRepo,
			githubClient,
			txManager,
		)
	} else {
		githubIntegrationsService = githubintegrations.NewOptionalGitHubIntegrationsService()
	}

	var githubAccountsService services.GitHubAccountsService
	if cfg.GitHubConfig.OAuth.IsConfigured() {
		stateSigner, err := oauthstate.NewSigner(cfg.SecurityConfig.OAuthStateSecret)
		if err != nil {
			return err
		}
		githubAccountsService = githubaccounts.NewGitHubAccountsService(githubClient, usersService, stateSigner, cfg.BaseURL)
	} else {
		githubAccountsService = githubaccounts.NewOptionalGitHubAccountsService()
	}

	prInfoService := prinfo.NewPRInfoService(githubClient, githubIntegrationsService, invoicesService)

	githubHandler := handlers.NewGitHubAPIHandler(usersService, githubAccountsService, githubIntegrationsService, prInfoService)
	githubHTTPHandler := handlers.NewGitHubHTTPHandler(githubHandler)

	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)
	companyMiddleware := middleware.NewCompanyMiddleware(companiesService)
	internalMiddleware := middleware.NewInternalAPIMiddleware(cfg.SecurityConfig.InternalAPIToken)

	router := mux.NewRouter()
	githubHTTPHandler.SetupEndpoints(router, authMiddleware, companyMiddleware, internalMiddleware)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	err = handleGracefulShutdown(server)
	alertMiddleware.Wait()
	return err
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		log.Infof("🛑 Shutdown signal received, cleaning up...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Infof("✅ Server stopped gracefully")
	return nil
}
