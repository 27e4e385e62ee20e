package main

import (
	"context"
	"log"
	"os"
	"time"

	"smartgrocery/internal/database"
	"smartgrocery/internal/domain/notification"
	"smartgrocery/internal/pkg/logger"
)

// Standalone variant of the weekly cleanup for environments where the API
// process does not run the cron scheduler (e.g. a Kubernetes CronJob).
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	zlog := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	defer zlog.Sync()

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := notification.NewService(notification.NewRepository(db), zlog)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := svc.CleanupOldRead(ctx)
	if err != nil {
		log.Fatalf("notification cleanup failed: %v", err)
	}

	log.Printf("notification cleanup completed: deleted=%d", deleted)
}
