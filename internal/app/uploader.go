package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/assets-client/internal/config"
	"github.com/Adda-Baaj/assets-client/internal/logger"
	"github.com/Adda-Baaj/assets-client/internal/storage"
	"github.com/Adda-Baaj/assets-client/internal/uploader"
	"github.com/Adda-Baaj/assets-client/pkg/assets"
	"github.com/Adda-Baaj/assets-client/pkg/publishers"
	"github.com/Adda-Baaj/assets-client/pkg/watches"
)

const logoutTimeout = 10 * time.Second

// Uploader is the hot-folder runtime. It owns the assets session, the upload
// ledger and the publishers, and rescans the watches on a fixed interval.
type Uploader struct {
	cfg      *config.Config
	client   *assets.Client
	watches  []watches.Watch
	fanout   *publishers.Fanout
	service  *uploader.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewUploader loads the watch and publisher files, opens the ledger and logs
// in. Any failure releases what was already opened.
func NewUploader(ctx context.Context, cfg *config.Config, log logger.Logger) (*Uploader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	watchReg, err := watches.Load(cfg.WatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load watches: %w", err)
	}
	enabled := watchReg.Enabled()
	watchIDs := make([]string, 0, len(enabled))
	for _, w := range enabled {
		watchIDs = append(watchIDs, w.ID)
	}
	log.InfoObj("watches loaded", "watches_meta", map[string]any{
		"count":   len(watchReg.All()),
		"enabled": watchIDs,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	client, err := assets.New(ctx, cfg.Credentials(),
		assets.WithTimeout(cfg.AssetsTimeout),
		assets.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		_ = fanout.Close()
		return nil, fmt.Errorf("assets login: %w", err)
	}
	log.InfoObj("assets session opened", "assets_session", map[string]any{
		"base_url": client.BaseURL(),
		"username": cfg.AssetsUsername,
	})

	return &Uploader{
		cfg:      cfg,
		client:   client,
		watches:  enabled,
		fanout:   fanout,
		service:  uploader.NewService(client, store, fanout, log),
		interval: cfg.ScanInterval,
		log:      log,
		store:    store,
	}, nil
}

// buildFanout returns an empty fanout when no publishers file is configured.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		log.InfoObj("no publishers file configured; uploads will not be announced", "publishers_meta", nil)
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run scans once immediately and then on every interval until ctx is done.
// The session is logged out and the ledger closed before it returns.
func (u *Uploader) Run(ctx context.Context) error {
	if u == nil || u.service == nil {
		return fmt.Errorf("uploader is not initialized")
	}
	defer u.shutdown(ctx)

	if len(u.watches) == 0 {
		u.log.WarnObj("no enabled watches; uploader idle", "watches_file", u.cfg.WatchesFile)
		<-ctx.Done()
		return nil
	}

	u.log.InfoObj("uploader loop starting", "uploader_state", map[string]any{
		"watches_count":    len(u.watches),
		"publishers_count": u.fanout.Size(),
		"scan_interval":    u.interval.String(),
	})

	if err := u.runOnce(ctx); err != nil {
		u.log.ErrorObj("initial scan failed", "error", err.Error())
	}

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.log.InfoObj("uploader loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := u.runOnce(ctx); err != nil {
				u.log.ErrorObj("scheduled scan failed", "error", err.Error())
			}
		}
	}
}

func (u *Uploader) runOnce(ctx context.Context) error {
	start := time.Now()
	if err := u.service.Run(ctx, u.watches); err != nil {
		return err
	}
	u.log.InfoObj("scan completed", "scan_meta", map[string]any{
		"watches_count": len(u.watches),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return nil
}

// shutdown runs on a fresh deadline since ctx is usually cancelled by then.
func (u *Uploader) shutdown(ctx context.Context) {
	logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
	defer cancel()

	if _, err := u.client.Logout(logoutCtx); err != nil {
		u.log.WarnObj("assets logout failed", "error", err.Error())
	}
	if err := u.fanout.Close(); err != nil {
		u.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if err := u.store.Close(); err != nil {
		u.log.ErrorObj("storage close failed", "error", err.Error())
	}
}
