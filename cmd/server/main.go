package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"lawbix/internal/adapters/cache"
	httpadapter "lawbix/internal/adapters/http"
	pg "lawbix/internal/adapters/postgres"
	"lawbix/internal/adapters/storage"
	"lawbix/internal/catalog"
	"lawbix/internal/config"
	"lawbix/internal/observability"
	"lawbix/internal/ports"
	authsvc "lawbix/internal/services/auth"
	chatsvc "lawbix/internal/services/chatbot"
	compsvc "lawbix/internal/services/companies"
	diagsvc "lawbix/internal/services/diagnosis"
	docsvc "lawbix/internal/services/documents"
	risksvc "lawbix/internal/services/risks"
	roadsvc "lawbix/internal/services/roadmap"
	"lawbix/internal/workers/docrunner"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoDatabaseURL) {
		return fmt.Errorf("config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfg.DatabaseURL == "" {
		return config.ErrNoDatabaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := observability.NewTracerProvider(ctx, cfg.ServiceName, logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()
	metrics := observability.NewMetrics()

	db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	var diagnoses ports.DiagnosisRepository = db
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cache.Options{URL: cfg.RedisURL})
		if err != nil {
			logger.Warn("redis unavailable, diagnosis cache disabled", "error", err)
		} else {
			defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
			diagnoses = cache.NewDiagnoses(db, rdb, cfg.CacheTTL, logger)
			logger.Info("diagnosis cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	blobs, err := newBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	cat := catalog.Default()
	risks := risksvc.New(cat, db, db, db, logger)
	documents := docsvc.New(docsvc.Deps{
		Companies: db,
		Diagnoses: diagnoses,
		Risks:     db,
		Roadmap:   db,
		Documents: db,
		Blobs:     blobs,
		Metrics:   metrics,
		Logger:    logger,
	})

	srv := httpadapter.New(httpadapter.Deps{
		Auth:      authsvc.New(db, cfg.JWTSecret, cfg.JWTExpire),
		Companies: compsvc.New(db),
		Diagnoses: diagsvc.New(cat, db, diagnoses,
			diagsvc.WithDeriver(risks),
			diagsvc.WithMetrics(metrics),
			diagsvc.WithLogger(logger),
		),
		Risks:           risks,
		Roadmap:         roadsvc.New(db, db),
		Documents:       documents,
		Chatbot:         chatsvc.New(chatsvc.DefaultDictionary(), db, logger),
		Jobs:            db,
		Processor:       documents,
		InlineDocuments: cfg.DocumentWorkers == 0,
		DB:              db,
		Metrics:         metrics,
		Logger:          logger,
		ServiceName:     cfg.ServiceName,
	})

	var wg sync.WaitGroup
	if cfg.DocumentWorkers > 0 {
		runner := &docrunner.Runner{
			Repo:         db,
			Processor:    documents,
			Concurrency:  cfg.DocumentWorkers,
			PollInterval: cfg.DocumentPollInterval,
			Metrics:      metrics,
			Logger:       logger,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Run(ctx)
		}()
		logger.Info("document workers started", "workers", cfg.DocumentWorkers)
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			stop()
			wg.Wait()
			return fmt.Errorf("server error: %w", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	wg.Wait()
	return nil
}

func newBlobStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.BlobStore, error) {
	switch cfg.StorageProvider {
	case "s3":
		s, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		logger.Info("document storage", "provider", "s3", "bucket", cfg.S3Bucket)
		return s, nil
	default:
		s, err := storage.NewFS(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("fs storage: %w", err)
		}
		logger.Info("document storage", "provider", "fs", "path", cfg.StoragePath)
		return s, nil
	}
}
