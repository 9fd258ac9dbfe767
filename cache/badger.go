package cache

import (
	"log/slog"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	badgerstore "github.com/renovelt/catalog/storage/badger"
)

// Badger is a Store backed by a shared BadgerDB backend, using native
// entry TTLs for expiry. It survives restarts and can be shared by
// multiple processes pointing at the same database directory.
type Badger[V any] struct {
	backend *badgerstore.Backend
	prefix  string
	encode  func(V) ([]byte, error)
	decode  func([]byte) (V, error)
	logger  *slog.Logger
}

var _ Store[int] = (*Badger[int])(nil)

// NewBadger creates a badger-backed cache. The prefix namespaces keys so
// multiple caches can share one backend.
func NewBadger[V any](backend *badgerstore.Backend, prefix string, encode func(V) ([]byte, error), decode func([]byte) (V, error)) *Badger[V] {
	return &Badger[V]{
		backend: backend,
		prefix:  prefix,
		encode:  encode,
		decode:  decode,
		logger:  slog.Default().With("component", "cache", "prefix", prefix),
	}
}

// Open returns a store on the shared badger backend when one is
// available, and falls back to a process-local memory store otherwise.
// Either way callers get advisory caching; only the sharing scope
// differs.
func Open[V any](backend *badgerstore.Backend, prefix string, encode func(V) ([]byte, error), decode func([]byte) (V, error)) Store[V] {
	if backend == nil || backend.IsClosed() {
		slog.Default().Warn("shared cache backend unavailable, using in-memory cache", "prefix", prefix)
		return NewMemory[V]()
	}
	return NewBadger(backend, prefix, encode, decode)
}

func (b *Badger[V]) key(key string) []byte {
	return []byte(b.prefix + ":" + key)
}

// Get returns the cached value for key. Read and decode failures are
// logged and reported as misses.
func (b *Badger[V]) Get(key string) (V, bool) {
	var zero V
	var data []byte

	err := b.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(b.key(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	if err != nil {
		if err != badger.ErrKeyNotFound {
			b.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return zero, false
	}

	value, err := b.decode(data)
	if err != nil {
		b.logger.Warn("cache decode failed", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

// Set stores value under key using badger's native TTL. Failures are
// logged, never surfaced.
func (b *Badger[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	data, err := b.encode(value)
	if err != nil {
		b.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}

	err = b.backend.WithTx(func(tx *badger.Txn) error {
		entry := badger.NewEntry(b.key(key), data).WithTTL(ttl)
		if err := tx.SetEntry(entry); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		b.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
