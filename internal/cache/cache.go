// Package cache keeps built indexes keyed by the digest of their dictionary,
// so a dictionary is only indexed once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bent101/wordle-entropy/dictionary"
	"github.com/bent101/wordle-entropy/index"
	"github.com/bent101/wordle-entropy/internal/config"
)

var (
	// ErrMiss means the store holds nothing for the key.
	ErrMiss = errors.New("cache miss")
	// ErrCorrupt means a stored payload could not be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// Store persists opaque payloads by key.
type Store interface {
	// Get returns the payload for key or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores payload under key, replacing any previous one.
	Put(ctx context.Context, key string, payload []byte) error
	Close() error
}

// Open returns a cache on the backend selected by cfg.
func Open(cfg config.CacheConfig, log zerolog.Logger) (*Cache, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case config.BackendFile:
		store, err = NewFileStore(cfg.Dir)
	case config.BackendSQLite:
		store, err = NewSQLiteStore(cfg.DSN)
	case config.BackendNone, "":
		store = NopStore{}
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("index cache: %w", err)
	}
	return New(store, log.With().Str("component", "cache").Str("backend", cfg.Backend).Logger()), nil
}

// Cache stores and restores indexes.
type Cache struct {
	store Store
	log   zerolog.Logger
}

// New wraps store.
func New(store Store, log zerolog.Logger) *Cache {
	return &Cache{store: store, log: log}
}

// Close releases the underlying store.
func (c *Cache) Close() error { return c.store.Close() }

// Lookup restores the index of dict. It returns ErrMiss when nothing is
// stored, ErrCorrupt when the payload is unreadable and index.ErrMismatch
// when the stored index belongs to other words.
func (c *Cache) Lookup(ctx context.Context, dict *dictionary.Dictionary) (*index.Index, error) {
	payload, err := c.store.Get(ctx, dict.Digest().String())
	if err != nil {
		return nil, err
	}
	snap, err := decode(payload)
	if err != nil {
		return nil, err
	}
	return index.FromSnapshot(dict, snap)
}

// Save stores idx under the digest of its dictionary.
func (c *Cache) Save(ctx context.Context, idx *index.Index) error {
	payload, err := encode(idx.Snapshot())
	if err != nil {
		return err
	}
	return c.store.Put(ctx, idx.Dictionary().Digest().String(), payload)
}

// BuildFunc builds the index of a dictionary.
type BuildFunc func(ctx context.Context, dict *dictionary.Dictionary) (*index.Index, error)

// LoadOrBuild returns the cached index of dict, or builds and stores it when
// the cache has none or holds an unusable one. hit reports whether the index
// came from the cache. Failing to store a fresh index is logged, not
// returned.
func (c *Cache) LoadOrBuild(ctx context.Context, dict *dictionary.Dictionary, build BuildFunc) (idx *index.Index, hit bool, err error) {
	return c.loadOrBuild(ctx, dict, build, false, false)
}

// Refresh is LoadOrBuild for callers whose job is to fill the cache: a
// fresh index that cannot be stored is an error. force skips the lookup and
// always rebuilds.
func (c *Cache) Refresh(ctx context.Context, dict *dictionary.Dictionary, build BuildFunc, force bool) (idx *index.Index, hit bool, err error) {
	return c.loadOrBuild(ctx, dict, build, force, true)
}

func (c *Cache) loadOrBuild(ctx context.Context, dict *dictionary.Dictionary, build BuildFunc, force, strict bool) (*index.Index, bool, error) {
	log := c.log.With().Str("digest", dict.Digest().String()[:12]).Logger()

	if !force {
		start := time.Now()
		idx, err := c.Lookup(ctx, dict)
		switch {
		case err == nil:
			log.Info().Int("words", dict.Len()).Dur("took", time.Since(start)).Msg("index loaded from cache")
			return idx, true, nil
		case errors.Is(err, ErrMiss):
			log.Info().Msg("index not cached")
		case errors.Is(err, ErrCorrupt), errors.Is(err, index.ErrMismatch):
			log.Warn().Err(err).Msg("discarding cached index")
		default:
			return nil, false, fmt.Errorf("index cache: %w", err)
		}
	}

	start := time.Now()
	idx, err := build(ctx, dict)
	if err != nil {
		return nil, false, err
	}
	log.Info().Int("words", dict.Len()).Dur("took", time.Since(start)).Msg("index built")

	if err := c.Save(ctx, idx); err != nil {
		if strict {
			return nil, false, fmt.Errorf("index cache: %w", err)
		}
		log.Warn().Err(err).Msg("storing index failed")
	}
	return idx, false, nil
}

// NopStore never holds anything.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (NopStore) Put(context.Context, string, []byte) error { return nil }
func (NopStore) Close() error { return nil }
