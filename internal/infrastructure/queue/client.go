package queue

import (
	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
)

// RedisConnOpt builds the asynq connection from the shared redis config
func RedisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisConnOpt(cfg))
}
