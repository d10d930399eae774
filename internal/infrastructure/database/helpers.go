package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping kiểm tra database connection có còn sống, dùng cho health check endpoint
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	// Health check không nên chờ quá lâu - 5s là đủ
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng tất cả connections trong pool. Gọi nhiều lần vẫn an toàn.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Debug().Msg("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("[DATABASE] Connection pool closed successfully")

	return nil
}

// MonitorPoolHealth log cảnh báo khi pool gần cạn; chạy trong goroutine riêng
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if db.Pool == nil {
				continue
			}
			stats := db.Pool.Stat()

			// === CHECK POOL EXHAUSTION ===
			if stats.MaxConns() > 0 {
				utilizationPct := float64(stats.AcquiredConns()) / float64(stats.MaxConns()) * 100
				if utilizationPct > 80 {
					log.Warn().Msgf("[MONITOR] HIGH POOL UTILIZATION: %.1f%% (%d/%d)",
						utilizationPct, stats.AcquiredConns(), stats.MaxConns())
				}
			}

			// === CHECK ACQUIRE WAIT TIME ===
			if n := stats.AcquireCount(); n > 0 {
				avg := stats.AcquireDuration() / time.Duration(n)
				if avg > 100*time.Millisecond {
					log.Warn().Msgf("[MONITOR] HIGH ACQUIRE LATENCY: %v", avg)
				}
			}

		case <-ctx.Done():
			log.Info().Msg("[MONITOR] Stopping pool health monitoring")
			return
		}
	}
}
