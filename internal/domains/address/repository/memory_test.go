package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

func TestMemoryRepository_FindByUserID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed("u1", model.Address{ID: "a1", IsDefault: true})

	book, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", book.UserID)
	assert.NotEmpty(t, book.Key)
	assert.Equal(t, int64(0), book.Revision)
	require.Len(t, book.Addresses, 1)

	// caller mutations must not leak into the store
	book.Addresses[0].ID = "mutated"
	again, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a1", again.Addresses[0].ID)

	_, err = repo.FindByUserID(ctx, "ghost")
	assert.True(t, a.IsUserNotFound(err))
}

func TestMemoryRepository_SaveAddresses(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed("u1")

	book, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)

	next := []model.Address{{ID: "a1", IsDefault: true}}
	require.NoError(t, repo.SaveAddresses(ctx, book, next))
	assert.Equal(t, int64(1), book.Revision)
	assert.Equal(t, next, book.Addresses)

	t.Run("stale revision conflicts", func(t *testing.T) {
		stale := &model.AddressBook{Key: book.Key, UserID: "u1", Revision: 0}
		err := repo.SaveAddresses(ctx, stale, nil)
		assert.True(t, a.IsConflict(err))

		current, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, current.Addresses, 1)
	})

	t.Run("unknown document", func(t *testing.T) {
		err := repo.SaveAddresses(ctx, &model.AddressBook{Key: "nope", UserID: "ghost"}, nil)
		assert.True(t, a.IsWriteFailed(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := repo.SaveAddresses(cctx, book, next)
		assert.True(t, a.IsWriteFailed(err))
	})
}

func TestMemoryRepository_ListUserIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	repo.Seed("u3", model.Address{ID: "x"})
	repo.Seed("u1", model.Address{ID: "y"})
	repo.Seed("u2")
	repo.Seed("u4", model.Address{ID: "z"})

	ids, err := repo.ListUserIDs(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, ids)

	ids, err = repo.ListUserIDs(ctx, "u3", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"u4"}, ids)

	assert.NoError(t, repo.Ping(ctx))
}
