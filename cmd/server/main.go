package main

import (
	"context"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/config"
	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/logger"
	"github.com/oggyb/tutormatch/internal/server"
	"github.com/oggyb/tutormatch/internal/service/discover"
	"github.com/oggyb/tutormatch/internal/service/profile"
	"github.com/oggyb/tutormatch/internal/service/ratings"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}
	defer redisCache.Close()

	appCtx := app.New(database, redisCache, log, cfg)

	registrars := []server.Registrar{
		discover.NewRegistrar(appCtx),
		ratings.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if _, err := db.SeedTestData(context.Background(), database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.GRPC.Host + ":" + cfg.GRPC.Port
	log.Info("starting gRPC server", "addr", addr)

	if err := server.StartGRPCServer(cfg, registrars...); err != nil {
		log.Error("failed to start gRPC server", "err", err)
	}
}
