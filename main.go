package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"atlastours/config"
	"atlastours/database"
	"atlastours/database/repository"
	"atlastours/handlers"
	"atlastours/metrics"
	"atlastours/middleware"
	"atlastours/routes"
	"atlastours/services/booking"
	"atlastours/services/notification"
	"atlastours/services/wizard"
	"atlastours/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	metrics.Register()

	store, failover := buildStorage(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.SeedInitialData(ctx); err != nil {
		cancel()
		logger.Sugar().Fatalf("main: failed to seed initial data: %v", err)
	}
	cancel()

	sessions := utils.NewSessionStore(logger)

	var notifier notification.Notifier = notification.NewWhatsAppNotifier(
		config.AppConfig.WhatsAppAPIURL,
		config.AppConfig.WhatsAppToken,
		config.AppConfig.AdminPhoneList(),
		logger,
	)
	if config.AppConfig.WhatsAppAPIURL == "" {
		notifier = &notification.NoopNotifier{}
	}

	bookingService := &booking.DefaultBookingService{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	}
	wizardService := &wizard.Service{
		Sessions: sessions,
		Store:    store,
		Bookings: bookingService,
		Logger:   logger,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetRateLimit(config.AppConfig.MaxRequestsPerMin)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := handlers.NewHandlerBundle(store, bookingService, wizardService, sessions, failover)
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// buildStorage selects the storage backend. The memory sentinel skips Mongo
// entirely; otherwise Mongo is primary with a circuit-broken failover to the
// seeded in-memory store. A Mongo that cannot be reached within the bounded
// connection attempts degrades to the in-memory dataset instead of aborting
// startup, so the API stays available without a database.
func buildStorage(logger *zap.Logger) (repository.Storage, *repository.FailoverStorage) {
	if config.UseMemoryStorage() {
		logger.Info("Using in-memory storage")
		return repository.NewMemoryStorage(), nil
	}

	primary, err := connectMongo(logger)
	return storageForPrimary(primary, err, logger)
}

func connectMongo(logger *zap.Logger) (repository.Storage, error) {
	client, err := database.Connect(logger)
	if err != nil {
		return nil, err
	}
	return repository.NewMongoStorage(client, config.AppConfig.DatabaseName)
}

// storageForPrimary wraps a reachable primary in the circuit-broken failover;
// a failed connection yields the in-memory dataset so startup never aborts on
// an unreachable database.
func storageForPrimary(primary repository.Storage, err error, logger *zap.Logger) (repository.Storage, *repository.FailoverStorage) {
	if err != nil {
		logger.Error("MongoDB unavailable at startup, serving from the in-memory fallback for the remainder of the process",
			zap.Error(err))
		return repository.NewMemoryStorage(), nil
	}
	breaker := utils.NewCircuitBreaker(3, 30*time.Second)
	failover := repository.NewFailoverStorage(primary, repository.NewMemoryStorage(), breaker, logger)
	return failover, failover
}
