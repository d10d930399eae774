package main

import (
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/config"
)

// loadConfig loads configuration from environment variables
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] Failed to load")
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("store_driver", cfg.Store.Driver).
		Str("sweep_cron", cfg.Worker.SweepCron).
		Msg("[Config] Loaded")

	return cfg
}
