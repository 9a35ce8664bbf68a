package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/workshop-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/workshop-scheduler/internal/db"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/workshop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/workshop-scheduler/internal/logger"
	"github.com/BruksfildServices01/workshop-scheduler/internal/routes"
	"github.com/BruksfildServices01/workshop-scheduler/internal/timezone"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "workshop-scheduler",
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := timezone.SetDefault(cfg.DefaultTimezone); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	deps := routes.Dependencies{
		Config: cfg,
		Logger: log,
		Cache:  cache.Nop{},
	}

	// ======================================================
	// STORAGE
	// ======================================================
	sinks := []audit.Sink{audit.NewSlogSink(log)}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		deps.Workshops = store
		deps.Appointments = store
		deps.Cache = cache.NewLocal(cfg.AvailabilityCacheTTL)
		log.Warn("using in-memory storage, data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}

		auditLogs := audit.New(db)

		deps.Workshops = infraRepo.NewWorkshopGormRepository(db)
		deps.Appointments = infraRepo.NewAppointmentGormRepository(db)
		deps.AuditLogs = auditLogs
		sinks = append(sinks, auditLogs)
	}

	// ======================================================
	// CACHE
	// ======================================================
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Warn("redis availability cache unavailable", "err", err)
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			deps.Cache = cache.NewRedisAvailability(rdb, cfg.AvailabilityCacheTTL, log)
		}
	}

	// ======================================================
	// AUDIT
	// ======================================================
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		closers = append(closers, func() { _ = kafkaSink.Close() })
		sinks = append(sinks, kafkaSink)
	}

	dispatcher := audit.NewDispatcher(log, cfg.AuditQueueSize, sinks...)
	closers = append(closers, dispatcher.Close)
	deps.Audit = dispatcher

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	if err := routes.RegisterRoutes(r, deps); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", cfg.Addr(), "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
