// The reconciler binary runs one balance reconciliation pass and exits.
// It is the cron target: exit code 0 means every eligible lease settled
// cleanly, anything else means the run aborted or at least one lease failed.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/sanitee2/rentease-app-sub002/internal/config"
	"github.com/sanitee2/rentease-app-sub002/internal/repository"
	"github.com/sanitee2/rentease-app-sub002/internal/service"
	"github.com/sanitee2/rentease-app-sub002/pkg/logger"
)

func main() {
	asOfFlag := flag.String("as-of", "", "reconcile as of this date (YYYY-MM-DD, defaults to today)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var asOf time.Time
	if *asOfFlag != "" {
		asOf, err = time.ParseInLocation("2006-01-02", *asOfFlag, cfg.Scheduler.GetLocation())
		if err != nil {
			log.Fatalf("invalid -as-of value %q: %v", *asOfFlag, err)
		}
	}

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

	report, err := reconciler.ReconcileAll(context.Background(), asOf)
	if err != nil {
		log.WithError(err).Error("reconciliation run aborted")
		os.Exit(1)
	}

	if report.HasErrors() {
		for _, failure := range report.Errors {
			log.WithField("lease_id", failure.LeaseID).Error(failure.Cause)
		}
		os.Exit(1)
	}
}
