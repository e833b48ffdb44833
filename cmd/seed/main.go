package main

import (
	"context"
	"os"

	"github.com/oggyb/tutormatch/internal/auth"
	"github.com/oggyb/tutormatch/internal/config"
	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	users, err := db.SeedTestData(context.Background(), database)
	if err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	// print dev tokens so seeded users can be driven with grpcurl
	if cfg.Auth.Secret != "" {
		issuer := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
		for _, u := range users {
			token, err := issuer.Issue(u.ID)
			if err != nil {
				log.Error("failed to issue token", "user_id", u.ID, "err", err)
				os.Exit(1)
			}
			log.Info("dev token", "user_id", u.ID, "role", u.Role, "token", token)
		}
	}

	log.Info("seeding completed", "users", len(users))
}
