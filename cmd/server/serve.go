package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"karen/internal/config"
	"karen/internal/infrastructure/mysql"
	natspub "karen/internal/infrastructure/nats"
	"karen/internal/mpesa"
	"karen/internal/order"
	"karen/internal/payment"
	"karen/internal/payment/service"
	"karen/internal/server"
)

const shutdownTimeout = 10 * time.Second

type eventPublisher interface {
	service.EventPublisher
	Close()
}

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLogger, err := bootstrap()
			if err != nil {
				return err
			}
			defer zapLogger.Sync()

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, zapLogger, skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger, skipMigrations bool) error {
	if !skipMigrations {
		if err := mysql.MigrateUp(cfg.Database, zapLogger); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	publisher, err := newPublisher(cfg.Events, zapLogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	router := server.NewRouter(
		order.NewModule(db, cfg, zapLogger),
		payment.NewModule(db, cfg, publisher, zapLogger),
		mpesa.NewModule(cfg, zapLogger),
		zapLogger,
	)

	if err := server.New(*cfg, router, zapLogger).Run(ctx, shutdownTimeout); err != nil {
		return err
	}

	zapLogger.Info("server stopped gracefully")
	return nil
}

func newPublisher(cfg config.EventsConfig, zapLogger *zap.Logger) (eventPublisher, error) {
	if cfg.NatsURL == "" {
		zapLogger.Info("NATS_URL not set, payment events are not published")
		return natspub.NoopPublisher{}, nil
	}

	publisher, err := natspub.Connect(cfg.NatsURL, cfg.Subject, zapLogger)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}
