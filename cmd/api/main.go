package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/config"
	"storefront-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD CONFIG
	// ========================================
	// .env (local) + system environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("env", cfg.App.Environment).Msg("🌍 Environment")

	// Delegate toàn bộ logic sang Serve()
	Serve(cfg)
}
