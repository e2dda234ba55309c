package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/zerofoodhero/api/internal/config"
	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/handler"
	authHandler "github.com/zerofoodhero/api/internal/handler/auth"
	donationHandler "github.com/zerofoodhero/api/internal/handler/donation"
	gamificationHandler "github.com/zerofoodhero/api/internal/handler/gamification"
	notificationHandler "github.com/zerofoodhero/api/internal/handler/notification"
	orderHandler "github.com/zerofoodhero/api/internal/handler/order"
	settingsHandler "github.com/zerofoodhero/api/internal/handler/settings"
	"github.com/zerofoodhero/api/internal/middleware"
	"github.com/zerofoodhero/api/internal/repository/kv"
	"github.com/zerofoodhero/api/internal/router"
	donationService "github.com/zerofoodhero/api/internal/service/donation"
	gamificationService "github.com/zerofoodhero/api/internal/service/gamification"
	notificationService "github.com/zerofoodhero/api/internal/service/notification"
	orderService "github.com/zerofoodhero/api/internal/service/order"
	settingsService "github.com/zerofoodhero/api/internal/service/settings"
	userService "github.com/zerofoodhero/api/internal/service/user"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/internal/worker"
	"github.com/zerofoodhero/api/pkg/auth"
	"github.com/zerofoodhero/api/pkg/logger"
	"github.com/zerofoodhero/api/pkg/messaging"
	redisBroker "github.com/zerofoodhero/api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(nil)

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal(err, "failed to initialize storage")
	}
	defer store.Close()

	broker, err := newBroker(cfg, log)
	if err != nil {
		log.Fatal(err, "failed to initialize message broker")
	}
	defer broker.Close()

	// Repositories
	donationRepo := kv.NewDonationRepository(store, log)
	userRepo := kv.NewUserRepository(store, log)
	gamificationRepo := kv.NewGamificationRepository(store, log)
	orderRepo := kv.NewOrderRepository(store, log)
	notificationRepo := kv.NewNotificationRepository(store, log)
	settingsRepo := kv.NewSettingsRepository(store, log)
	locationRepo := kv.NewLocationRepository(store, log)

	// Services
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	emailSvc := newEmailService(cfg)
	notificationSvc := notificationService.NewService(notificationRepo, settingsRepo, userRepo, emailSvc, log)
	gamificationSvc := gamificationService.NewService(gamificationRepo, userRepo, notificationSvc, log)
	userSvc := userService.NewService(userRepo, jwtSvc, notificationSvc, log)
	donationSvc := donationService.NewService(donationRepo, gamificationSvc, notificationSvc, broker, cfg.Server.BaseURL, log)
	orderSvc := orderService.NewService(orderRepo, donationSvc, donationRepo, cfg.Server.BaseURL, log)
	settingsSvc := settingsService.NewService(settingsRepo, locationRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, userRepo)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(userSvc, authMiddleware),
		donationHandler.NewHandler(donationSvc, authMiddleware),
		orderHandler.NewHandler(orderSvc, authMiddleware),
		gamificationHandler.NewHandler(gamificationSvc, authMiddleware),
		notificationHandler.NewHandler(notificationSvc),
		settingsHandler.NewHandler(settingsSvc),
		handler.NewHandler(),
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
			CORSConfig: middleware.CORSConfig{
				AllowOrigins: cfg.Security.AllowedOrigins,
				AllowMethods: cfg.Security.AllowedMethods,
				AllowHeaders: cfg.Security.AllowedHeaders,
			},
			MetricsPrefix: cfg.Monitoring.MetricsPrefix,
		},
	)
	r.Setup()

	// Background expiry sweep
	pollerCtx, cancelPoller := context.WithCancel(context.Background())
	defer cancelPoller()
	poller := worker.NewExpiryPoller(donationRepo, broker, cfg.Poller.Interval, donationService.UpdatesChannel, log)
	go poller.Start(pollerCtx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")
	cancelPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.NewRedisStore(storage.RedisConfig{
			URL:       cfg.Redis.URL,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case "postgres":
		return storage.NewPostgresStore(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		})
	case "memory", "":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newBroker(cfg *config.Config, log *logger.Logger) (messaging.Broker, error) {
	if cfg.Storage.Backend != "redis" {
		return messaging.NewMemoryBroker(), nil
	}
	return redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
}

func newEmailService(cfg *config.Config) email.Service {
	if !cfg.SMTP.Enabled {
		return email.NewNoopService()
	}
	return email.NewSMTPService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}
