package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/shared"
)

// RepairDefaultHandler xử lý task address:repair_default cho một user
type RepairDefaultHandler struct {
	gateway a.GatewayInterface
}

func NewRepairDefaultHandler(gateway a.GatewayInterface) *RepairDefaultHandler {
	return &RepairDefaultHandler{gateway: gateway}
}

func (h *RepairDefaultHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RepairDefaultPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Unmarshal repair payload failed")
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}
	if payload.UserID == "" {
		return fmt.Errorf("empty user id: %w", asynq.SkipRetry)
	}

	wrote, err := h.gateway.RepairDefault(ctx, payload.UserID)
	if err != nil {
		// user đã bị xóa thì retry cũng vô ích
		if a.IsUserNotFound(err) {
			log.Warn().Str("user_id", payload.UserID).Msg("repair skipped, user not found")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	log.Info().
		Str("user_id", payload.UserID).
		Bool("wrote", wrote).
		Msg("default address repair finished")
	return nil
}

// TaskEnqueuer là phần của *asynq.Client mà RepairEnqueuer dùng
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RepairEnqueuer implements address.RepairScheduler on top of asynq
type RepairEnqueuer struct {
	client TaskEnqueuer
	delay  time.Duration
}

func NewRepairEnqueuer(client TaskEnqueuer, delay time.Duration) *RepairEnqueuer {
	return &RepairEnqueuer{client: client, delay: delay}
}

func (e *RepairEnqueuer) ScheduleRepair(ctx context.Context, userID string) error {
	task, err := NewRepairDefaultTask(userID)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueHigh),
		asynq.MaxRetry(5),
		asynq.ProcessIn(e.delay),
		asynq.Unique(time.Minute),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeRepairDefaultAddress, err)
	}

	log.Info().Str("user_id", userID).Str("task_id", info.ID).Msg("default repair scheduled")
	return nil
}

func NewRepairDefaultTask(userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.RepairDefaultPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(shared.TypeRepairDefaultAddress, payload), nil
}

var _ a.RepairScheduler = (*RepairEnqueuer)(nil)
