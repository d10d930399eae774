package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/internal/domains/address/repository"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("addr-%d", n)
	}
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []string
}

func (o *recordingObserver) ObserveGatewayOp(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, fmt.Sprintf("%s:%s", op, codeOf(err)))
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return a.GetErrorCode(err)
}

func newTestGateway(t *testing.T, seed ...model.Address) (*Gateway, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	repo.Seed("u1", seed...)
	return NewGateway(repo, WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())), repo
}

func input(name string) model.AddressInput {
	return model.AddressInput{RecipientName: name, Phone: "0901234567", Line: "12 Main St, Ward 5, District 1, HCMC"}
}

func TestGateway_FetchAll(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t)

	addrs, err := g.FetchAll(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, addrs)
	assert.Empty(t, addrs)

	_, err = g.FetchAll(ctx, "ghost")
	assert.True(t, a.IsUserNotFound(err))
}

func TestGateway_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("first address becomes default", func(t *testing.T) {
		g, _ := newTestGateway(t)

		created, err := g.Add(ctx, "u1", input("Lan"))
		require.NoError(t, err)
		assert.Equal(t, "addr-1", created.ID)
		assert.True(t, created.IsDefault)
		assert.Equal(t, fixedNow, created.CreatedAt)
		assert.Equal(t, "HCMC", created.City)
	})

	t.Run("later addresses are not default unless asked", func(t *testing.T) {
		g, _ := newTestGateway(t)
		_, err := g.Add(ctx, "u1", input("Lan"))
		require.NoError(t, err)

		created, err := g.Add(ctx, "u1", input("Minh"))
		require.NoError(t, err)
		assert.False(t, created.IsDefault)

		addrs, err := g.FetchAll(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, addrs, 2)
		assert.Equal(t, 1, model.CountDefaults(addrs))
		assert.Equal(t, "addr-1", addrs[0].ID)
	})

	t.Run("new default clears the old one", func(t *testing.T) {
		g, _ := newTestGateway(t)
		_, err := g.Add(ctx, "u1", input("Lan"))
		require.NoError(t, err)

		in := input("Minh")
		in.IsDefault = true
		_, err = g.Add(ctx, "u1", in)
		require.NoError(t, err)

		addrs, err := g.FetchAll(ctx, "u1")
		require.NoError(t, err)
		def, ok := model.FindDefault(addrs)
		require.True(t, ok)
		assert.Equal(t, "addr-2", def.ID)
		assert.Equal(t, 1, model.CountDefaults(addrs))
	})

	t.Run("unknown user", func(t *testing.T) {
		g, _ := newTestGateway(t)
		_, err := g.Add(ctx, "ghost", input("Lan"))
		assert.True(t, a.IsUserNotFound(err))
	})
}

func TestGateway_Update(t *testing.T) {
	ctx := context.Background()
	seed := []model.Address{
		{ID: "a", RecipientName: "Lan", City: "HCMC", IsDefault: true, CreatedAt: fixedNow},
		{ID: "b", RecipientName: "Minh", City: "Hanoi", CreatedAt: fixedNow},
	}

	t.Run("merges only patched fields", func(t *testing.T) {
		g, _ := newTestGateway(t, seed...)
		city := "Da Nang"
		require.NoError(t, g.Update(ctx, "u1", "b", model.AddressPatch{City: &city}))

		addrs, err := g.FetchAll(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Da Nang", addrs[1].City)
		assert.Equal(t, "Minh", addrs[1].RecipientName)
		assert.Equal(t, seed[0], addrs[0])
	})

	t.Run("promoting clears other defaults", func(t *testing.T) {
		g, _ := newTestGateway(t, seed...)
		yes := true
		require.NoError(t, g.Update(ctx, "u1", "b", model.AddressPatch{IsDefault: &yes}))

		addrs, err := g.FetchAll(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, addrs[0].IsDefault)
		assert.True(t, addrs[1].IsDefault)
	})

	t.Run("unsetting the current default is refused", func(t *testing.T) {
		g, _ := newTestGateway(t, seed...)
		no := false
		err := g.Update(ctx, "u1", "a", model.AddressPatch{IsDefault: &no})
		assert.True(t, errors.Is(err, a.ErrCannotUnsetDefault))

		addrs, err := g.FetchAll(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, addrs[0].IsDefault)
	})

	t.Run("unknown address id", func(t *testing.T) {
		g, repo := newTestGateway(t, seed...)
		city := "X"
		err := g.Update(ctx, "u1", "zzz", model.AddressPatch{City: &city})
		assert.True(t, a.IsAddressNotFound(err))

		book, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), book.Revision)
	})
}

func TestGateway_Delete(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t,
		model.Address{ID: "a", IsDefault: true},
		model.Address{ID: "b"},
		model.Address{ID: "c"},
	)

	require.NoError(t, g.Delete(ctx, "u1", "b"))

	addrs, err := g.FetchAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "a", addrs[0].ID)
	assert.Equal(t, "c", addrs[1].ID)

	err = g.Delete(ctx, "u1", "b")
	assert.True(t, a.IsAddressNotFound(err))
}

func TestGateway_SetDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("exactly one default afterwards", func(t *testing.T) {
		g, _ := newTestGateway(t,
			model.Address{ID: "a", IsDefault: true},
			model.Address{ID: "b"},
			model.Address{ID: "c", IsDefault: true},
		)

		out, err := g.SetDefault(ctx, "u1", "b")
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 1, model.CountDefaults(out))
		assert.True(t, out[1].IsDefault)
	})

	t.Run("unknown id writes nothing", func(t *testing.T) {
		g, repo := newTestGateway(t, model.Address{ID: "a", IsDefault: true})

		_, err := g.SetDefault(ctx, "u1", "zzz")
		assert.True(t, a.IsAddressNotFound(err))

		book, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), book.Revision)
		assert.True(t, book.Addresses[0].IsDefault)
	})
}

func TestGateway_RepairDefault(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		seed        []model.Address
		wantWrote   bool
		wantDefault string
	}{
		{"empty list", nil, false, ""},
		{"already consistent", []model.Address{{ID: "a"}, {ID: "b", IsDefault: true}}, false, "b"},
		{"no default picks first", []model.Address{{ID: "a"}, {ID: "b"}}, true, "a"},
		{"several defaults keep first", []model.Address{{ID: "a"}, {ID: "b", IsDefault: true}, {ID: "c", IsDefault: true}}, true, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t, tt.seed...)

			wrote, err := g.RepairDefault(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantWrote, wrote)

			addrs, err := g.FetchAll(ctx, "u1")
			require.NoError(t, err)
			def, ok := model.FindDefault(addrs)
			if tt.wantDefault == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantDefault, def.ID)
			assert.Equal(t, 1, model.CountDefaults(addrs))
		})
	}
}

// conflictRepository simulates another writer landing between read and write
type conflictRepository struct {
	*repository.MemoryRepository
	failWith error
}

func (r *conflictRepository) SaveAddresses(ctx context.Context, book *model.AddressBook, addrs []model.Address) error {
	if r.failWith != nil {
		return r.failWith
	}
	return r.MemoryRepository.SaveAddresses(ctx, book, addrs)
}

func TestGateway_WriteErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict is returned as is", func(t *testing.T) {
		mem := repository.NewMemoryRepository()
		mem.Seed("u1")
		obs := &recordingObserver{}
		g := NewGateway(&conflictRepository{MemoryRepository: mem, failWith: a.NewConflict("u1", 0)}, WithObserver(obs))

		_, err := g.Add(ctx, "u1", input("Lan"))
		assert.True(t, a.IsConflict(err))
		assert.Equal(t, []string{"add:CONFLICT"}, obs.ops)
	})

	t.Run("driver errors become write failed", func(t *testing.T) {
		mem := repository.NewMemoryRepository()
		mem.Seed("u1", model.Address{ID: "a", IsDefault: true})
		g := NewGateway(&conflictRepository{MemoryRepository: mem, failWith: errors.New("socket closed")})

		err := g.Delete(ctx, "u1", "a")
		assert.True(t, a.IsWriteFailed(err))
	})
}

func TestGateway_ObserverSeesEveryOp(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	repo.Seed("u1")
	obs := &recordingObserver{}
	g := NewGateway(repo, WithObserver(obs), WithIDGenerator(sequentialIDs()))

	_, _ = g.FetchAll(ctx, "u1")
	_, _ = g.Add(ctx, "u1", input("Lan"))
	_, _ = g.SetDefault(ctx, "u1", "missing")

	assert.Equal(t, []string{"fetch_all:ok", "add:ok", "set_default:ADDRESS_NOT_FOUND"}, obs.ops)
}
