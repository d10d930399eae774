package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/shared"
)

const DefaultSweepPageSize = 200

// SweepDefaultsHandler duyệt toàn bộ user có address và sửa những danh sách
// không có đúng một default. Lỗi của từng user chỉ được log, không dừng sweep.
type SweepDefaultsHandler struct {
	repo    a.Repository
	gateway a.GatewayInterface
}

func NewSweepDefaultsHandler(repo a.Repository, gateway a.GatewayInterface) *SweepDefaultsHandler {
	return &SweepDefaultsHandler{repo: repo, gateway: gateway}
}

// SweepResult tổng kết một lần sweep
type SweepResult struct {
	Scanned  int
	Repaired int
	Skipped  int
}

func (h *SweepDefaultsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SweepDefaultsPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Unmarshal sweep payload failed")
			return err
		}
	}

	res, err := h.Sweep(ctx, payload.PageSize)
	if err != nil {
		return err
	}

	log.Info().
		Int("scanned", res.Scanned).
		Int("repaired", res.Repaired).
		Int("skipped", res.Skipped).
		Msg("default address sweep finished")
	return nil
}

func (h *SweepDefaultsHandler) Sweep(ctx context.Context, pageSize int) (SweepResult, error) {
	if pageSize <= 0 {
		pageSize = DefaultSweepPageSize
	}

	var (
		res   SweepResult
		after string
	)
	for {
		ids, err := h.repo.ListUserIDs(ctx, after, pageSize)
		if err != nil {
			return res, err
		}

		for _, userID := range ids {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Scanned++

			wrote, err := h.gateway.RepairDefault(ctx, userID)
			if err != nil {
				res.Skipped++
				log.Warn().Err(err).Str("user_id", userID).Str("code", a.GetErrorCode(err)).Msg("sweep skipped user")
				continue
			}
			if wrote {
				res.Repaired++
			}
		}

		if len(ids) < pageSize {
			return res, nil
		}
		after = ids[len(ids)-1]
	}
}
