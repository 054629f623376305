package cache

import (
	"github.com/docutask/docutask/internal/config"
	"github.com/docutask/docutask/internal/logger"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	// CacheTypeInMemory represents an in-memory cache
	CacheTypeInMemory CacheType = "inmemory"

	// CacheTypeRedis represents a Redis-backed cache
	CacheTypeRedis CacheType = "redis"
)

// Initialize initializes the cache system based on the configured type,
// falling back to the in-memory backend when redis is unreachable
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache", "type", cfg.Cache.Type)

	switch CacheType(cfg.Cache.Type) {
	case CacheTypeRedis:
		redisCache, err := NewRedisCache(cfg, log)
		if err != nil {
			log.Errorw("redis cache unavailable, falling back to in-memory", "error", err)
			return GetInMemoryCache()
		}
		return redisCache
	case CacheTypeInMemory:
		fallthrough
	default:
		return GetInMemoryCache()
	}
}
