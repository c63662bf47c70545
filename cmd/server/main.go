package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	httpapi "everkeep-backend/internal/api/http"
	"everkeep-backend/internal/config"
	"everkeep-backend/internal/logger"
	"everkeep-backend/internal/ratelimit"
	"everkeep-backend/internal/repository/postgres"
	"everkeep-backend/internal/security"
	"everkeep-backend/internal/service"
	"everkeep-backend/internal/storage"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Everkeep Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Storage Service
	var storageService storage.StorageInterface
	var localStorage *storage.LocalStorageService
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		logger.Info("Using local storage", "upload_dir", cfg.Storage.UploadDir)
		localStorage, err = storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize local storage", "error", err)
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = localStorage
	} else {
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	// Initialize Rate Limiter
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.RateLimit.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisLimiter(
			rdb,
			"everkeep",
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
		logger.Info("Rate limiting enabled", "requests", cfg.RateLimit.Requests, "window_seconds", cfg.RateLimit.WindowSeconds)
	}

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	accessSvc := service.NewAccessService(
		store.MemorialRepository,
		store.CollaboratorRepository,
		store.AccessRequestRepository,
	)
	requestSvc := service.NewAccessRequestService(
		store.MemorialRepository,
		store.CollaboratorRepository,
		store.AccessRequestRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
	)
	memorialSvc := service.NewMemorialService(
		store.MemorialRepository,
		store.CollaboratorRepository,
		store.InvitationRepository,
		store.UserRepository,
		accessSvc,
		emailSvc,
	)
	photoSvc := service.NewPhotoService(
		store.MemorialRepository,
		store.CollaboratorRepository,
		accessSvc,
		storageService,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Build the HTTP router
	router := httpapi.NewRouter(httpapi.RouterConfig{
		AuthService:          authSvc,
		AccessService:        accessSvc,
		AccessRequestService: requestSvc,
		MemorialService:      memorialSvc,
		PhotoService:         photoSvc,
		NotificationService:  noteSvc,
		TokenManager:         tokenManager,
		Limiter:              limiter,
		LocalStorage:         localStorage,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
