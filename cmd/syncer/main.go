package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"flickr_syncer/internal/config"
	"flickr_syncer/internal/events"
	"flickr_syncer/internal/lease"
	"flickr_syncer/internal/scheduler"
	"flickr_syncer/internal/service"
	"flickr_syncer/internal/source/flickr"
	"flickr_syncer/internal/storage/postgres"
	"flickr_syncer/internal/telegram"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	tgClient := telegram.New(telegram.Config{
		BaseURL:  cfg.Telegram.BaseURL,
		BotToken: cfg.Telegram.BotToken,
		Timeout:  cfg.Telegram.Timeout,
	}, logger)
	reporter := telegram.NewReporter(tgClient, cfg.Telegram.ErrorReportingChat, logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		// The report chat may itself be part of the broken config; best
		// effort only.
		if cfg.Telegram.BotToken != "" && cfg.Telegram.ErrorReportingChat != "" {
			reporter.Report(ctx, err.Error())
		}
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	var eventPublisher service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := events.NewRabbitMQ(events.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		eventPublisher = rabbitMQ
	}

	flickrSource := flickr.New(flickr.Config{
		BaseURL:        cfg.Flickr.BaseURL,
		ConsumerKey:    cfg.Flickr.ConsumerKey,
		ConsumerSecret: cfg.Flickr.ConsumerSecret,
		OAuthToken:     cfg.Flickr.OAuthToken,
		OAuthSecret:    cfg.Flickr.OAuthSecret,
		OAuthVerifier:  cfg.Flickr.OAuthVerifier,
		ReauthURL:      cfg.Flickr.ReauthURL,
		Timeout:        cfg.Flickr.Timeout,
	}, logger)

	leaseManager := lease.NewManager(
		postgres.NewLeaseStore(db),
		cfg.Sync.LeaseName,
		lease.RetryPolicy{
			MaxTries:        cfg.Sync.Release.MaxTries,
			InitialInterval: cfg.Sync.Release.InitialInterval,
			MaxInterval:     cfg.Sync.Release.MaxInterval,
		},
		logger,
	)

	syncService := service.NewSyncService(
		flickrSource,
		postgres.NewPhotoStore(db),
		postgres.NewTagStore(db),
		postgres.NewExifStore(db),
		postgres.NewUserStore(db),
		postgres.NewMessageStore(db),
		postgres.NewActionStore(db),
		tgClient,
		leaseManager,
		reporter,
		eventPublisher,
		logger,
		cfg.Sync,
		cfg.Telegram.PhotoChannelID,
	)

	sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, cfg.Sync.RunTimeout, logger)

	logger.Info("starting flickr syncer",
		"channel", cfg.Telegram.PhotoChannelID,
		"interval", cfg.Sync.Interval,
		"action", cfg.Sync.Action,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
