// Package cache implements bridge to fast in-memory object cache.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/allegro/bigcache"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
)

// MemBridge represents BigCache abstraction layer.
// Only immutable block pinned results are stored here.
type MemBridge struct {
	cache *bigcache.BigCache
	log   logger.Logger
}

// New creates a new cache bridge instance.
func New(cfg *config.Cache, log logger.Logger) (*MemBridge, error) {
	c, err := bigcache.NewBigCache(cacheConfig(cfg))
	if err != nil {
		log.Criticalf("can not create in-memory cache; %s", err.Error())
		return nil, err
	}

	log.Noticef("in-memory cache ready; %d MB, eviction %s", cfg.MaxSize, cfg.Eviction)
	return &MemBridge{
		cache: c,
		log:   log,
	}, nil
}

// cacheConfig builds the cache setup from the configuration.
func cacheConfig(cfg *config.Cache) bigcache.Config {
	c := bigcache.DefaultConfig(cfg.Eviction)
	c.HardMaxCacheSize = cfg.MaxSize
	c.MaxEntrySize = 2048
	c.Verbose = false
	return c
}

// PullResult extracts the result stored under the given key, if any.
func (b *MemBridge) PullResult(key string) (json.RawMessage, bool) {
	data, err := b.cache.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			b.log.Errorf("can not read cached result %s; %s", key, err.Error())
		}
		return nil, false
	}
	return data, true
}

// PushResult stores the result under the given key.
func (b *MemBridge) PushResult(key string, res json.RawMessage) error {
	if len(res) == 0 {
		return fmt.Errorf("empty result for %s", key)
	}

	if err := b.cache.Set(key, res); err != nil {
		b.log.Errorf("can not cache result %s; %s", key, err.Error())
		return err
	}
	return nil
}

// Close releases the cache.
func (b *MemBridge) Close() {
	if err := b.cache.Close(); err != nil {
		b.log.Errorf("can not close in-memory cache; %s", err.Error())
	}
}
