package uploader

import (
	"context"

	"github.com/Adda-Baaj/assets-client/internal/storage"
	"github.com/Adda-Baaj/assets-client/pkg/assets"
	"github.com/Adda-Baaj/assets-client/pkg/publishers"
)

// AssetWriter sends files to the server. *assets.Client satisfies it.
type AssetWriter interface {
	Create(ctx context.Context, req assets.CreateRequest) (*assets.Hit, error)
	Update(ctx context.Context, req assets.UpdateRequest) (*assets.Hit, error)
}

// Ledger maps each watched file to the asset it became. storage.Store
// satisfies it.
type Ledger interface {
	Lookup(key string) (storage.Entry, bool, error)
	Record(key string, e storage.Entry) error
}

// EventPublisher announces uploads downstream. *publishers.Fanout satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
