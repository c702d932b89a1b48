package main

import (
	"SafeTube/config"
	"SafeTube/controllers"
	"SafeTube/interfaces"
	"SafeTube/repositories/impl"
	"SafeTube/routes"
	"SafeTube/services"
	"SafeTube/websocket"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "safetube",
	Short: "SafeTube - child access control and content safety API",
	// serve is the default command
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var importTranslationsCmd = &cobra.Command{
	Use:   "import-translations [file]",
	Short: "Import translations from a CSV file (key,ru,en,kz)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runImportTranslations,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, importTranslationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openDatabase() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if _, err := openDatabase(); err != nil {
		return err
	}
	log.Println("Database schema is up to date")
	return nil
}

func runImportTranslations(cmd *cobra.Command, args []string) error {
	path := "translate.csv"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := openDatabase(); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	translations, err := services.ParseTranslationsCSV(file)
	if err != nil {
		return err
	}
	written, err := services.NewTranslationService(impl.NewTranslationRepository(config.DB)).Import(translations)
	if err != nil {
		return err
	}
	log.Printf("Imported %d translations from %s", written, path)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := openDatabase()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	db := config.DB
	clock := services.NewClock(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	parentRepo := impl.NewParentRepository(db)
	childRepo := impl.NewChildRepository(db)
	ruleRepo := impl.NewScreenTimeRuleRepository(db)
	filterRepo := impl.NewContentFilterRepository(db)
	whitelistRepo := impl.NewWhitelistRepository(db)
	blacklistRepo := impl.NewBlacklistRepository(db)
	approvalRepo := impl.NewApprovalRequestRepository(db)
	sessionRepo := impl.NewSessionRepository(db)
	deviceRepo := impl.NewDeviceRepository(db)
	activityRepo := impl.NewActivityLogRepository(db)
	notificationRepo := impl.NewNotificationRepository(db)
	translationRepo := impl.NewTranslationRepository(db)
	quotaRepo := impl.NewQuotaRepository(db)

	// Optional integrations
	firebaseClients, err := services.NewFirebaseClients(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		return err
	}
	var verifier interfaces.ParentTokenVerifier
	var push services.PushSender
	if firebaseClients.Auth != nil {
		verifier = firebaseClients.Auth
		push = firebaseClients.Messaging
	} else {
		log.Println("FIREBASE_CREDENTIALS_PATH not set: parent authentication and push are disabled")
	}

	var email services.EmailSender
	if emailService := services.NewEmailService(cfg.ResendAPIKey, cfg.FromEmail); emailService != nil {
		email = emailService
	}

	var catalog interfaces.CatalogClient
	catalogService, err := services.NewCatalogService(ctx, services.CatalogConfig{
		APIKey:     cfg.YouTubeAPIKey,
		DailyQuota: cfg.YouTubeDailyQuota,
		Timeout:    cfg.CatalogTimeout,
		CacheSize:  cfg.CatalogCacheSize,
		CacheTTL:   cfg.CatalogCacheTTL,
	}, quotaRepo, clock)
	if err != nil {
		log.Printf("Video catalog disabled: %v", err)
	} else {
		catalog = catalogService
	}

	// Initialize services
	hub := websocket.NewHub(nil)
	translationService := services.NewTranslationService(translationRepo)
	notificationService := services.NewNotificationService(notificationRepo, parentRepo, childRepo, translationService, push, email)
	parentService := services.NewParentService(parentRepo, childRepo, notificationRepo, activityRepo)
	screenTimeService := services.NewScreenTimeService(ruleRepo, childRepo, sessionRepo, activityRepo, hub, notificationService, clock)
	contentSafetyService := services.NewContentSafetyService(childRepo, filterRepo, whitelistRepo, blacklistRepo, activityRepo, catalog, hub)
	approvalService := services.NewApprovalService(approvalRepo, childRepo, whitelistRepo, activityRepo, hub, notificationService, clock)
	authService := services.NewAuthService(childRepo, sessionRepo, activityRepo, screenTimeService, notificationService, clock, cfg.JWTSecret, cfg.ChildTokenTTL)
	childService := services.NewChildService(childRepo, ruleRepo, filterRepo, sessionRepo, hub, clock)
	deviceService := services.NewDeviceService(deviceRepo, childRepo, parentRepo, hub, clock)
	hub.Progress = deviceService

	go hub.Run(ctx)

	// Set services in controllers
	controllers.SetAuthService(authService)
	controllers.SetParentService(parentService)
	controllers.SetChildService(childService)
	controllers.SetTranslationService(translationService)
	controllers.SetScreenTimeService(screenTimeService)
	controllers.SetContentSafetyService(contentSafetyService)
	controllers.SetApprovalService(approvalService)
	controllers.SetDeviceService(deviceService)
	controllers.SetWebSocketHub(hub)

	r := gin.Default()
	routes.RegisterRoutes(r, authService, parentService, verifier)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server listening on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	notificationService.Wait()
	return nil
}
