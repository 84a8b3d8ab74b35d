package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/edutask-api/internal/auth"
	"github.com/yukikurage/edutask-api/internal/config"
	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/handlers"
	"github.com/yukikurage/edutask-api/internal/repository"
	"github.com/yukikurage/edutask-api/internal/services"
	"github.com/yukikurage/edutask-api/internal/storage"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	// Connect to database
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	healthChecks := map[string]func(context.Context) bool{
		"db": dbHealthy(db),
	}

	// Token revocation
	var blocklist auth.Blocklist
	switch cfg.BlocklistBackend {
	case "redis":
		client := auth.NewRedisClient(cfg.RedisAddr)
		defer client.Close()
		redisBlocklist := auth.NewRedisBlocklist(client, "edutask:revoked:")
		healthChecks["redis"] = redisBlocklist.Healthy
		blocklist = redisBlocklist
	default:
		log.Println("Using in-memory token blocklist; revocations are lost on restart")
		blocklist = auth.NewMemoryBlocklist()
	}

	// Image storage
	var (
		images    storage.ImageStore
		uploadDir string
	)
	switch cfg.StorageBackend {
	case "b2":
		store, err := storage.NewB2Store(ctx, cfg.B2KeyID, cfg.B2AppKey, cfg.B2Bucket)
		if err != nil {
			return err
		}
		log.Println("Storing task images in B2 bucket", cfg.B2Bucket)
		images = store
	default:
		store, err := storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return err
		}
		images = store
		uploadDir = store.Dir()
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	issuer := auth.NewIssuer(cfg.SecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, issuer, blocklist)
	taskService := services.NewTaskService(taskRepo, completionRepo, userRepo, images)
	statsService := services.NewStatsService(taskRepo, completionRepo, userRepo)

	// Default admin; a failure here must not keep the API down
	if _, err := authService.BootstrapAdmin(services.AdminCredentials{
		Email:    cfg.DefaultAdminEmail,
		Username: cfg.DefaultAdminUsername,
		Password: cfg.DefaultAdminPassword,
	}); err != nil {
		log.Printf("Failed to create default admin user: %v", err)
	}

	r := handlers.NewRouter(handlers.RouterDeps{
		AuthService:      authService,
		TaskService:      taskService,
		StatsService:     statsService,
		UploadDir:        uploadDir,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		HealthChecks:     healthChecks,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

func dbHealthy(db *gorm.DB) func(context.Context) bool {
	return func(ctx context.Context) bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.PingContext(ctx) == nil
	}
}
