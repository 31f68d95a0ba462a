// The scheduler daemon runs the nightly reconciliation pass in-process.
// A short-TTL redis lock keeps overlapping instances from double-applying
// period deltas; a run that finds the lock held simply skips its slot.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sanitee2/rentease-app-sub002/internal/config"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
	"github.com/sanitee2/rentease-app-sub002/internal/service"
	"github.com/sanitee2/rentease-app-sub002/pkg/logger"
)

const reconcileLockKey = "rentease:reconcile:lock"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("Starting balance reconciliation scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	reconciler := service.NewBalanceReconciler(
		repository.NewLeaseRepository(db),
		repository.NewPaymentRepository(db),
		redisClient,
		log,
		cfg.Scheduler.GetLocation(),
		cfg.Redis.GetBalanceCacheTTL(),
	)
	locker := redislock.New(redisClient)

	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Scheduler.GetLocation()))
	_, err = c.AddFunc(cfg.Scheduler.Cron, func() {
		runPass(log, locker, reconciler, cfg.Scheduler.GetLockTTL())
	})
	if err != nil {
		log.Fatalf("Failed to schedule reconciliation job: %v", err)
	}

	c.Start()
	log.WithField("cron", cfg.Scheduler.Cron).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func runPass(log *logrus.Logger, locker *redislock.Client, reconciler *service.BalanceReconciler, lockTTL time.Duration) {
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, reconcileLockKey, lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		log.Warn("another reconciliation run holds the lock, skipping this slot")
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to obtain reconciliation lock")
		return
	}
	defer lock.Release(ctx)

	report, err := reconciler.ReconcileAll(ctx, time.Now())
	if err != nil {
		log.WithError(err).Error("reconciliation run aborted")
		return
	}

	if report.HasErrors() {
		log.WithField("failed", len(report.Errors)).Warn("reconciliation pass finished with lease failures")
	}
}
