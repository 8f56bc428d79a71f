package uploader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/assets-client/internal/domain"
	"github.com/Adda-Baaj/assets-client/internal/logger"
	"github.com/Adda-Baaj/assets-client/internal/storage"
	"github.com/Adda-Baaj/assets-client/pkg/assets"
	"github.com/Adda-Baaj/assets-client/pkg/publishers"
	"github.com/Adda-Baaj/assets-client/pkg/watches"
)

// Stats summarizes one pass over a watch.
type Stats struct {
	Found    int
	Skipped  int
	Uploaded int
	Updated  int
	Failed   int
}

// Service uploads new and changed files from watched directories.
type Service struct {
	writer    AssetWriter
	ledger    Ledger
	publisher EventPublisher
	log       logger.Logger
	now       func() time.Time
}

// NewService wires an uploader. publisher may be nil.
func NewService(writer AssetWriter, ledger Ledger, publisher EventPublisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		writer:    writer,
		ledger:    ledger,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Run scans every watch once. Failures of one watch or file do not stop the
// others; all of them are returned joined.
func (s *Service) Run(ctx context.Context, ws []watches.Watch) error {
	if s == nil || s.writer == nil || s.ledger == nil {
		return fmt.Errorf("uploader service is not initialized")
	}
	if len(ws) == 0 {
		return fmt.Errorf("no watches configured for uploading")
	}

	var errs []error
	for _, w := range ws {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		stats, err := s.Scan(ctx, w)
		if err != nil {
			errs = append(errs, fmt.Errorf("watch %s: %w", w.ID, err))
			s.log.ErrorObj("watch scan failed", "watch_error", map[string]any{
				"watch_id": w.ID,
				"error":    err.Error(),
			})
		}
		s.log.InfoObj("watch scan completed", "watch_result", map[string]any{
			"watch_id": w.ID,
			"found":    stats.Found,
			"skipped":  stats.Skipped,
			"uploaded": stats.Uploaded,
			"updated":  stats.Updated,
			"failed":   stats.Failed,
		})
	}
	return errors.Join(errs...)
}

// Scan uploads the files of w that the ledger has not seen and updates the
// assets of files that changed since.
func (s *Service) Scan(ctx context.Context, w watches.Watch) (Stats, error) {
	files, err := listFiles(ctx, w)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Found: len(files)}
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		action, err := s.syncFile(ctx, w, f)
		switch {
		case action == domain.ActionCreated:
			stats.Uploaded++
		case action == domain.ActionUpdated:
			stats.Updated++
		case err == nil:
			stats.Skipped++
		}
		if err != nil {
			// A sent file can still fail afterwards, in the ledger or a publisher.
			stats.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", f.RelPath, err))
			s.log.WarnObj("file upload failed", "upload_error", map[string]any{
				"watch_id": w.ID,
				"file":     f.RelPath,
				"action":   action,
				"error":    err.Error(),
			})
		}
	}
	return stats, errors.Join(errs...)
}

// syncFile returns the action taken for f, or "" when the ledger already holds
// its current version.
func (s *Service) syncFile(ctx context.Context, w watches.Watch, f domain.LocalFile) (string, error) {
	key := LedgerKey(f)
	fingerprint := Fingerprint(f)
	entry, found, err := s.ledger.Lookup(key)
	if err != nil {
		return "", fmt.Errorf("ledger lookup: %w", err)
	}
	if found && entry.Fingerprint == fingerprint {
		return "", nil
	}

	folder := targetFolder(w, f)
	var (
		hit    *assets.Hit
		action string
	)
	if found && entry.AssetID != "" {
		hit, err = s.writer.Update(ctx, assets.UpdateRequest{ID: entry.AssetID, Filename: f.Path})
		switch {
		case err == nil:
			action = domain.ActionUpdated
			if hit.ID == "" {
				hit.ID = entry.AssetID
			}
		case assets.StatusCode(err) == http.StatusNotFound:
			s.log.WarnObj("recorded asset is gone, uploading again", "upload_asset_missing", map[string]any{
				"watch_id": w.ID,
				"file":     f.RelPath,
				"asset_id": entry.AssetID,
			})
		default:
			return "", fmt.Errorf("update asset %s: %w", entry.AssetID, err)
		}
	}
	if action == "" {
		hit, err = s.writer.Create(ctx, assets.CreateRequest{
			Filename:   f.Path,
			FolderPath: folder,
			Metadata:   copyMetadata(w.Metadata),
		})
		if err != nil {
			return "", fmt.Errorf("create asset: %w", err)
		}
		action = domain.ActionCreated
	}

	if err := s.ledger.Record(key, storage.Entry{AssetID: hit.ID, Fingerprint: fingerprint}); err != nil {
		return action, fmt.Errorf("ledger record %s: %w", hit.ID, err)
	}

	asset := domain.UploadedAsset{
		Action:     action,
		ID:         hit.ID,
		AssetPath:  hit.AssetPath(),
		Filename:   filepath.Base(f.Path),
		FolderPath: folder,
		SourcePath: f.Path,
		UploadedAt: s.now(),
	}
	if action == domain.ActionUpdated && asset.AssetPath != "" {
		// The asset may have been moved on the server since it was created.
		asset.FolderPath = path.Dir(asset.AssetPath)
	}
	s.log.InfoObj("asset uploaded", "asset_uploaded", map[string]any{
		"watch_id":   w.ID,
		"action":     action,
		"asset_id":   asset.ID,
		"asset_path": asset.AssetPath,
	})

	if s.publisher == nil {
		return action, nil
	}
	if _, err := s.publisher.Publish(ctx, publishers.NewEvent(w.ID, w.Name, asset)); err != nil {
		return action, fmt.Errorf("publish upload of %s: %w", asset.ID, err)
	}
	return action, nil
}

func copyMetadata(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
