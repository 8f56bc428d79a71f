package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	uploadsBucket       = "uploads"
	expiryBytes         = 8
	headerBytes         = expiryBytes + 1
	maxFingerprintBytes = 255
)

var errBucketMissing = errors.New("uploads bucket missing")

// boltStore implements a Store backed by BoltDB. Each value is an 8-byte
// big-endian unix expiry, a one-byte fingerprint length, the fingerprint and
// then the asset id.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(uploadsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		ttl:             opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             opts.Clock,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Lookup returns the entry for key. Expired entries are deleted and reported
// missing. A live entry gets a full TTL again.
func (b *boltStore) Lookup(key string) (Entry, bool, error) {
	if b == nil || b.db == nil {
		return Entry{}, false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return Entry{}, false, err
	}

	var (
		entry Entry
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return errBucketMissing
		}

		k := []byte(key)
		value := bucket.Get(k)
		if value == nil {
			return nil
		}

		expiry, e, ok := decodeEntry(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(k)
		}

		entry, found = e, true
		refreshed, err := encodeEntry(now.Add(b.ttl), e)
		if err != nil {
			return err
		}
		return bucket.Put(k, refreshed)
	})
	return entry, found, err
}

// Record stores e under key with a full TTL.
func (b *boltStore) Record(key string, e Entry) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	value, err := encodeEntry(now.Add(b.ttl), e)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), value)
	})
}

// maybeCleanupExpired prunes expired entries at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(uploadsBucket))
		if bucket == nil {
			return errBucketMissing
		}

		var expired [][]byte
		if err := bucket.ForEach(func(k, v []byte) error {
			if expiry, _, ok := decodeEntry(v); !ok || !expiry.After(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeEntry(expiry time.Time, e Entry) ([]byte, error) {
	if len(e.Fingerprint) > maxFingerprintBytes {
		return nil, fmt.Errorf("fingerprint longer than %d bytes", maxFingerprintBytes)
	}
	buf := make([]byte, 0, headerBytes+len(e.Fingerprint)+len(e.AssetID))
	buf = binary.BigEndian.AppendUint64(buf, uint64(expiry.Unix()))
	buf = append(buf, byte(len(e.Fingerprint)))
	buf = append(buf, e.Fingerprint...)
	buf = append(buf, e.AssetID...)
	return buf, nil
}

func decodeEntry(value []byte) (time.Time, Entry, bool) {
	if len(value) < headerBytes {
		return time.Time{}, Entry{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryBytes]))
	fpLen := int(value[expiryBytes])
	if unix <= 0 || len(value) < headerBytes+fpLen {
		return time.Time{}, Entry{}, false
	}
	rest := value[headerBytes:]
	return time.Unix(unix, 0), Entry{
		Fingerprint: string(rest[:fpLen]),
		AssetID:     string(rest[fpLen:]),
	}, true
}
