package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned when a key is neither in the local nor in the remote cache.
var ErrCacheMiss = errors.New("cache miss")

// RemoteCache is a shared cache used behind the in-process cache.
type RemoteCache interface {
	SetBytes(ctx context.Context, key string, value []byte, expiration time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
}

// TieredCache combines an in-process freecache with an optional remote cache.
// Values are stored json encoded together with their expiry time, so entries
// fetched from the remote cache keep their remaining lifetime locally.
type TieredCache struct {
	localCache  *freecache.Cache
	remoteCache RemoteCache
	logger      logrus.FieldLogger
}

type cachedValue struct {
	Version uint64          `json:"i"`
	Timeout int64           `json:"t"`
	Value   json.RawMessage `json:"v"`
}

// NewTieredCache creates a cache with cacheSize MB of local memory. The remote
// redis cache is only used when redisAddress is set.
func NewTieredCache(ctx context.Context, cacheSize int, redisAddress string, redisPrefix string, logger logrus.FieldLogger) (*TieredCache, error) {
	var remoteCache RemoteCache
	if redisAddress != "" {
		redisCache, err := NewRedisCache(ctx, redisAddress, redisPrefix)
		if err != nil {
			logger.WithError(err).Errorf("error initializing remote redis cache. address: %v", redisAddress)
			return nil, err
		}
		remoteCache = redisCache
	}

	return newTieredCache(cacheSize, remoteCache, logger), nil
}

func newTieredCache(cacheSize int, remoteCache RemoteCache, logger logrus.FieldLogger) *TieredCache {
	if cacheSize <= 0 {
		cacheSize = 32
	}
	return &TieredCache{
		localCache:  freecache.NewCache(cacheSize * 1024 * 1024),
		remoteCache: remoteCache,
		logger:      logger.WithField("module", "cache"),
	}
}

func (cache *TieredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	valueJson, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := cachedValue{
		Version: 1,
		Value:   valueJson,
	}
	if expiration > 0 {
		entry.Timeout = time.Now().Add(expiration).Unix()
	}

	entryJson, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := cache.localCache.Set([]byte(key), entryJson, int(expiration.Seconds())); err != nil {
		cache.logger.WithError(err).Warnf("could not store %v in local cache", key)
	}
	if cache.remoteCache != nil {
		return cache.remoteCache.SetBytes(ctx, key, entryJson, expiration)
	}
	return nil
}

// Get decodes the cached value of key into returnValue.
func (cache *TieredCache) Get(ctx context.Context, key string, returnValue interface{}) error {
	entry := &cachedValue{}

	entryJson, err := cache.localCache.Get([]byte(key))
	if err == nil {
		if err := json.Unmarshal(entryJson, entry); err != nil {
			cache.localCache.Del([]byte(key))
			return err
		}
		return json.Unmarshal(entry.Value, returnValue)
	}

	if cache.remoteCache == nil {
		return ErrCacheMiss
	}

	entryJson, err = cache.remoteCache.GetBytes(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(entryJson, entry); err != nil {
		return err
	}
	if entry.Timeout > 0 && entry.Timeout <= time.Now().Unix() {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(entry.Value, returnValue); err != nil {
		return err
	}

	// keep a local copy for the remaining lifetime
	if entry.Timeout == 0 || entry.Timeout > time.Now().Add(2*time.Second).Unix() {
		var timeout int64
		if entry.Timeout > 0 {
			timeout = entry.Timeout - time.Now().Unix()
		}
		cache.localCache.Set([]byte(key), entryJson, int(timeout))
	}
	return nil
}
