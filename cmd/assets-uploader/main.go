package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/assets-client/internal/app"
	"github.com/Adda-Baaj/assets-client/internal/config"
	"github.com/Adda-Baaj/assets-client/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "assets-uploader start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("assets-uploader starting", "config", map[string]any{
		"env":             cfg.Env,
		"assets_endpoint": cfg.AssetsEndpoint,
		"assets_username": cfg.AssetsUsername,
		"watches_file":    cfg.WatchesFile,
		"publishers_file": cfg.PublishersFile,
		"scan_interval":   cfg.ScanInterval.String(),
		"storage_type":    cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploader, err := app.NewUploader(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize uploader", "error", err.Error())
		return err
	}

	if err := uploader.Run(ctx); err != nil {
		return fmt.Errorf("uploader run: %w", err)
	}
	return nil
}
