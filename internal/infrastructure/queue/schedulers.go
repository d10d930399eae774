package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-backend/internal/config"
	"storefront-backend/internal/shared"
)

// PeriodicRegistrar là phần của *asynq.Scheduler dùng để đăng ký cron job
type PeriodicRegistrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.WorkerConfig
}

func NewScheduler(redis asynq.RedisConnOpt, jobConfig config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterAddressJobs() error {
	return RegisterSweepDefaultsJob(s.scheduler, s.jobConfig)
}

// ================================================
// Sweep default addresses (daily at 3 AM by default)
// ================================================
func RegisterSweepDefaultsJob(r PeriodicRegistrar, jobConfig config.WorkerConfig) error {
	payload, err := json.Marshal(shared.SweepDefaultsPayload{PageSize: jobConfig.SweepPageSize})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeSweepDefaultAddress, payload)

	entryID, err := r.Register(
		jobConfig.SweepCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register SweepDefaults job")
		return err
	}

	log.Info().
		Str("entry_id", entryID).
		Str("cron", jobConfig.SweepCron).
		Msg("Registered SweepDefaults job")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
