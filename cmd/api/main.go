package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/database"
	"github.com/platebook/backend/internal/logger"
	"github.com/platebook/backend/internal/server"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// The short-link cache is optional: resolution falls back to the
	// database when Redis is unreachable.
	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Warn("redis unavailable, short-link cache disabled", zap.Error(err))
		cache = nil
	}

	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Warn("S3 unavailable, image storage disabled", zap.Error(err))
		s3cfg = nil
	}

	srv := server.New(cfg, db, cache, s3cfg, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("received signal", zap.Stringer("signal", sig))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
