package cache

import (
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
)

// CacheType represents the type of cache to use
type CacheType string

const (
	CacheTypeInMemory CacheType = "inmemory"
)

// Initialize initializes the cache system based on the configured type.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache system", "type", cfg.Cache.Type)

	switch CacheType(cfg.Cache.Type) {
	case CacheTypeInMemory:
		fallthrough
	default:
		InitializeInMemoryCache()
		return GetInMemoryCache()
	}
}
