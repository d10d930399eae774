package job

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/domains/address/gateway"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/internal/domains/address/repository"
	"storefront-backend/internal/shared"
)

func TestSweepDefaultsHandler_Sweep(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()

	// u00..u04: no default, u05..u09: consistent, u10: two defaults, u11: empty
	for i := 0; i < 5; i++ {
		repo.Seed(fmt.Sprintf("u%02d", i), model.Address{ID: "a"}, model.Address{ID: "b"})
	}
	for i := 5; i < 10; i++ {
		repo.Seed(fmt.Sprintf("u%02d", i), model.Address{ID: "a", IsDefault: true})
	}
	repo.Seed("u10", model.Address{ID: "a", IsDefault: true}, model.Address{ID: "b", IsDefault: true})
	repo.Seed("u11")

	h := NewSweepDefaultsHandler(repo, gateway.NewGateway(repo))

	// page size smaller than the population to exercise paging
	res, err := h.Sweep(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 11, Repaired: 6, Skipped: 0}, res)

	for i := 0; i <= 10; i++ {
		book, err := repo.FindByUserID(ctx, fmt.Sprintf("u%02d", i))
		require.NoError(t, err)
		assert.Equal(t, 1, model.CountDefaults(book.Addresses), book.UserID)
	}

	// second pass is a no-op
	res, err = h.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Repaired)
}

func TestSweepDefaultsHandler_ProcessTask(t *testing.T) {
	repo := repository.NewMemoryRepository()
	repo.Seed("u1", model.Address{ID: "a"})
	h := NewSweepDefaultsHandler(repo, gateway.NewGateway(repo))

	payload, err := json.Marshal(shared.SweepDefaultsPayload{PageSize: 10})
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeSweepDefaultAddress, payload)))

	book, err := repo.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, book.Addresses[0].IsDefault)

	// cron task may carry no payload at all
	assert.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeSweepDefaultAddress, nil)))
}
