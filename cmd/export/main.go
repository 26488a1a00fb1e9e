package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-resource-api/config"
	"github.com/oksasatya/go-user-resource-api/internal/application"
	pginfra "github.com/oksasatya/go-user-resource-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

// export writes a snapshot of every user to gs://$GCS_BUCKET/exports/users-<timestamp>.ndjson.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env)
	if cfg.GCSBucket == "" {
		logger.Fatal("GCS_BUCKET not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to init GCS client")
	}
	defer func() { _ = gcs.Close() }()

	users := pginfra.NewUserRepository(pool)
	object := fmt.Sprintf("exports/users-%s.ndjson", time.Now().UTC().Format("20060102T150405Z"))

	pr, pw := io.Pipe()
	counted := make(chan int, 1)
	go func() {
		n, err := application.ExportUsers(ctx, users, pw, 500)
		counted <- n
		_ = pw.CloseWithError(err)
	}()

	uri, err := helpers.UploadObject(ctx, gcs, cfg.GCSBucket, object, "application/x-ndjson", pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		logger.WithError(err).Fatal("export failed")
	}
	logger.WithField("uri", uri).WithField("rows", <-counted).Info("export complete")
}
