package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/stripe"

	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := newLogger(config.LogLevel)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err = run(config, logger); err != nil {
		logger.Fatal("marketplace stopped with error", zap.Error(err))
	}
}

func run(config cmd.Config, logger *zap.Logger) error {
	gormDB, err := gorm.Open(pgdriver.Open(config.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return err
	}

	gateway, err := stripe.NewGateway(stripe.Config{APIKey: config.StripeAPIKey}, logger)
	if err != nil {
		return err
	}

	dispatcher := kafka.NewDispatcher(config.KafkaBrokers, config.KafkaNotificationTopic, logger)
	defer func() {
		if cerr := dispatcher.Close(); cerr != nil {
			logger.Error("closing notification dispatcher", zap.Error(cerr))
		}
	}()

	app := cmd.NewCompositionRoot(config, gormDB, gateway, dispatcher, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	router, err := httpadapter.NewRouter(app.CreateHTTPServer(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("port", config.HTTPPort))
		if serr := router.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			serverErr <- serr
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
