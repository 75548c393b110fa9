package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vaudoise/backoffice/config"
	"github.com/vaudoise/backoffice/httpapi"
	"github.com/vaudoise/backoffice/logging"
	"github.com/vaudoise/backoffice/service"
	"github.com/vaudoise/backoffice/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var configDir string

	// setup loads the configuration and the logger shared by every command.
	setup := func() (*config.Config, *zap.Logger, error) {
		cfg, err := config.Load(configDir)
		if err != nil {
			return nil, nil, err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return nil, nil, err
		}
		zap.ReplaceGlobals(logger)
		return cfg, logger, nil
	}

	var rootCmd = &cobra.Command{
		Use:           "backoffice",
		Short:         "Clients and contracts back office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml")

	var serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return serve(logging.NewContext(cmd.Context(), logger), cfg)
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			db, err := store.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeDB(db, logger)

			if err := store.Migrate(db); err != nil {
				return err
			}
			logger.Info("database migrated")
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.FromContext(ctx)

	db, err := store.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}

	opts := []service.Option{
		service.WithPageSizes(cfg.Pagination.DefaultSize, cfg.Pagination.MaxSize),
	}
	contracts := service.NewContractService(db, opts...)
	clients := service.NewClientService(db, contracts, opts...)

	api := httpapi.New(clients, contracts,
		httpapi.WithLogger(logger),
		httpapi.WithAllowedOrigins(cfg.HTTP.AllowedOrigins...),
		httpapi.WithHealthCheck(sqlDB.PingContext),
	)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- errors.Wrap(err, "listen")
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return <-errc
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}
