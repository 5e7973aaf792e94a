package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"roomdrop/internal/blob"
	"roomdrop/internal/config"
	"roomdrop/internal/db"
	"roomdrop/internal/server"
	"roomdrop/internal/store"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Env == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("store init failed")
	}
	defer closeStore()

	blobs, err := openBlobs(cfg)
	if err != nil {
		log.WithError(err).Fatal("blob storage init failed")
	}

	srv := server.New(server.Config{
		Addr:           cfg.Addr,
		Store:          st,
		Blobs:          blobs,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Log:            log,
	})

	// Start the HTTP server in a background goroutine so we can listen for
	// OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("starting")
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal arrives or the server errors.
	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Fatal("shutdown error")
		}
		log.Info("shutdown complete")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Fatal("server error")
		}
	}
}

// openStore picks the Postgres backend when DATABASE_URL is set and the
// in-memory one otherwise.
func openStore(cfg *config.Config, log *logrus.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, rooms are in-memory and vanish on restart")
		return store.NewMemory(), func() {}, nil
	}

	dbConn, err := store.OpenDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	log.Info("running migrations")
	if err := db.RunMigrations(dbConn); err != nil {
		_ = dbConn.Close()
		return nil, nil, err
	}
	log.Info("migrations complete")

	return store.NewPostgres(dbConn), func() { _ = dbConn.Close() }, nil
}

func openBlobs(cfg *config.Config) (blob.Store, error) {
	switch cfg.Storage {
	case config.StorageInline:
		return blob.NewInline(), nil
	case config.StorageMinio:
		return blob.NewMinio(context.Background(), blob.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
	default:
		return blob.NewDisk(cfg.UploadDir)
	}
}
