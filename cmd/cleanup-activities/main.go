// Command cleanup-activities removes activity events older than the
// configured retention period. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexigen-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/lexigen-backend/internal/app"
	"github.com/heartmarshall/lexigen-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	activityRepo := activity.New(pool)

	cutoff := time.Now().AddDate(0, 0, -cfg.Activity.RetentionDays)

	deleted, err := activityRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("activity cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		os.Exit(1)
	}

	logger.Info("activity cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
	)
}
