package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/sanitee2/rentease-app-sub002/internal/config"
	"github.com/sanitee2/rentease-app-sub002/internal/handler"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
	"github.com/sanitee2/rentease-app-sub002/internal/service"
	"github.com/sanitee2/rentease-app-sub002/pkg/logger"
	"github.com/sanitee2/rentease-app-sub002/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	leaseRepo := repository.NewLeaseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize services
	cacheTTL := cfg.Redis.GetBalanceCacheTTL()
	leaseService := service.NewLeaseService(leaseRepo, paymentRepo, redisClient, log, cacheTTL)
	reconciler := service.NewBalanceReconciler(leaseRepo, paymentRepo, redisClient, log, cfg.Scheduler.GetLocation(), cacheTTL)

	leaseHandler := handler.NewLeaseHandler(leaseService, reconciler)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.GetHealthTimeout())

	router := setupRoutes(leaseHandler, healthHandler)
	router.Use(response.LoggingMiddleware(log))

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}

	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(leaseHandler *handler.LeaseHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/leases", leaseHandler.CreateLease).Methods("POST")
	api.HandleFunc("/leases/{leaseId}/balance", leaseHandler.GetBalance).Methods("GET")
	api.HandleFunc("/leases/{leaseId}/payments", leaseHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/leases/{leaseId}/payments", leaseHandler.ListPayments).Methods("GET")
	api.HandleFunc("/reconciliation/run", leaseHandler.RunReconciliation).Methods("POST")

	return router
}
