package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantfold/helix/internal/api"
	"github.com/quantfold/helix/internal/backtest"
	"github.com/quantfold/helix/internal/config"
	"github.com/quantfold/helix/internal/logger"
	"github.com/quantfold/helix/internal/metrics"
	"github.com/quantfold/helix/internal/sandbox"
	"github.com/quantfold/helix/internal/storage/archive"
	"github.com/quantfold/helix/internal/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Helix API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log := logger.Must(logger.Options{Development: debug || cfg.LogDev})
	defer log.Sync()

	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
	}

	archiver, err := buildArchiver(cfg, log)
	if err != nil {
		return err
	}

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
	}

	executor := sandbox.NewExecutor(
		sandbox.WithTimeout(cfg.Sandbox.Timeout),
		sandbox.WithLogger(log),
	)

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		JobTTL:      time.Duration(cfg.Server.JobTTLHours) * time.Hour,
		MaxJobs:     cfg.Server.MaxJobs,
		MetricsPath: cfg.Metrics.Path,
		Defaults: backtest.Config{
			InitialCapital:  cfg.Backtest.InitialCapital,
			PositionSizePct: cfg.Backtest.PositionSizePct,
		},
	}, strategy.NewDefaultEngine(log), executor, archiver, registry, log)

	log.Info("starting Helix server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down Helix server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

func buildArchiver(cfg *config.Config, log *zap.Logger) (*archive.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	var store archive.Store
	var err error

	switch cfg.Archive.Type {
	case "s3":
		store, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		store, err = archive.NewLocalFS(cfg.Archive.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("creating archive store: %w", err)
	}

	return archive.NewArchiver(store, log), nil
}
