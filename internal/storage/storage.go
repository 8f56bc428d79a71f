package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps the upload ledger: which local files already became
// assets, and in which version.

// Entry is what the ledger remembers about one watched file.
type Entry struct {
	AssetID string
	// Fingerprint identifies the file version that was last sent.
	Fingerprint string
}

// Store maps a watched file to the asset it was uploaded as.
type Store interface {
	Close() error
	// Lookup returns the live entry for key. A hit extends the entry's
	// lifetime, so files that stay in a watched directory never expire.
	Lookup(key string) (Entry, bool, error)
	Record(key string, e Entry) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	// EntryTTL is how long an entry survives without being looked up.
	EntryTTL        time.Duration
	CleanupInterval time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return opts
}

// noopStore forgets everything, so every scan re-uploads every file.
type noopStore struct{}

func (noopStore) Close() error                       { return nil }
func (noopStore) Lookup(string) (Entry, bool, error) { return Entry{}, false, nil }
func (noopStore) Record(string, Entry) error         { return nil }
