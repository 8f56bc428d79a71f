package publishers

import (
	"time"

	"github.com/Adda-Baaj/assets-client/internal/domain"
)

// AssetRef identifies the asset an upload produced.
type AssetRef struct {
	ID         string `json:"id"`
	AssetPath  string `json:"asset_path"`
	Filename   string `json:"filename"`
	FolderPath string `json:"folder_path"`
}

// Event is the payload published downstream after a file is uploaded.
type Event struct {
	WatchID    string    `json:"watch_id"`
	WatchName  string    `json:"watch_name"`
	Action     string    `json:"action"`
	Asset      AssetRef  `json:"asset"`
	SourcePath string    `json:"source_path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewEvent constructs an Event for an asset uploaded by the given watch.
func NewEvent(watchID, watchName string, asset domain.UploadedAsset) Event {
	at := asset.UploadedAt
	if at.IsZero() {
		at = time.Now()
	}
	return Event{
		WatchID:   watchID,
		WatchName: watchName,
		Action:    asset.Action,
		Asset: AssetRef{
			ID:         asset.ID,
			AssetPath:  asset.AssetPath,
			Filename:   asset.Filename,
			FolderPath: asset.FolderPath,
		},
		SourcePath: asset.SourcePath,
		UploadedAt: at.UTC(),
	}
}

// attributes are the routing attributes attached by the queue publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"watch_id": e.WatchID,
		"asset_id": e.Asset.ID,
		"action":   e.Action,
	}
}
