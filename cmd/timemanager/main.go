package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"timemanager/internal/amqp"
	"timemanager/internal/config"
	apphttp "timemanager/internal/http"
	"timemanager/internal/kv"
	"timemanager/internal/log"
	"timemanager/internal/state"
	"timemanager/internal/storage"
	"timemanager/internal/timer"
)

func main() {
	// .env is for local development; absence is not an error
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	var store kv.Store
	switch cfg.StateBackend {
	case "sqlite":
		sqlStore, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open state database", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		store = kv.NewMemory()
		logger.Info("Initialized memory backend")
	}

	var stateOpts []state.Option
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		stateOpts = append(stateOpts, state.WithPublisher(amqpClient))
		logger.Info("Ledger export publishing enabled", "exchange", cfg.AMQPExchange)
	}

	st := state.New(store, logger, stateOpts...)
	if err := st.Load(context.Background()); err != nil {
		logger.Error("Failed to load persisted state", log.FieldError, err)
		os.Exit(1)
	}

	tm := timer.New(st, logger)
	srv := apphttp.NewServer(":"+cfg.Port, st, tm, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	// A new month empties the bar chart's newest bucket, so rendered
	// charts go stale even without a data change.
	watcher := timer.NewRolloverWatcher(st, logger, srv.InvalidateCharts,
		timer.WithCheckInterval(cfg.RolloverCheckInterval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.StateBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
