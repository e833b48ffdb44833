package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/config"
)

// AppContext holds shared dependencies (DB, Redis, Logger, Config)
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Config     *config.Config
}

// New creates a new AppContext. A nil cfg is replaced by config.New().
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger, cfg *config.Config) *AppContext {
	if cfg == nil {
		cfg = config.New()
	}
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Config:     cfg,
	}
}
