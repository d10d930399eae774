package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/im7mortal/kmutex"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/pkg/cache"
)

const (
	snapshotKeyPrefix   = "address_book:"
	DefaultSnapshotTTL  = 30 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// Operation names passed to the Notifier
const (
	OpFetch             = "fetch_addresses"
	OpAdd               = "add_address"
	OpSave              = "save_address"
	OpDelete            = "delete_address"
	OpSetDefault        = "set_default_address"
	OpReassignAfterDrop = "reassign_default_after_delete"
)

type Option func(*Store)

func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithFetchTimeout giới hạn lần đọc dùng chung của FetchAddresses
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) { s.fetchTimeout = d }
}

func WithNotifier(n a.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithRepairScheduler(r a.RepairScheduler) Option {
	return func(s *Store) { s.repair = r }
}

// Store giữ bản sao danh sách address của từng user (snapshot trong cache) và
// điều phối Gateway. Mutation của cùng một user được chạy tuần tự, kể cả lần
// re-fetch cuối; user khác nhau chạy song song.
type Store struct {
	gateway a.GatewayInterface
	cache   cache.Cache
	ttl     time.Duration

	fetchTimeout time.Duration

	locks *kmutex.Kmutex
	group singleflight.Group

	loadingMu sync.Mutex
	loading   map[string]int

	notifier a.Notifier
	repair   a.RepairScheduler
}

func NewStore(gateway a.GatewayInterface, c cache.Cache, opts ...Option) *Store {
	s := &Store{
		gateway:  gateway,
		cache:    c,
		ttl:      DefaultSnapshotTTL,

		fetchTimeout: DefaultFetchTimeout,
		locks:    kmutex.New(),
		loading:  make(map[string]int),
		notifier: NewLogNotifier(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ a.StoreInterface = (*Store)(nil)

// ========================================
// ACTIONS
// ========================================

// FetchAddresses thay snapshot bằng kết quả FetchAll. Nhiều lời gọi đồng thời
// cho cùng user được gộp lại thành một lần đọc. Lần đọc chung không phụ thuộc
// vào ctx của caller nào; mỗi caller chỉ bỏ chờ khi ctx của chính nó bị hủy.
func (s *Store) FetchAddresses(ctx context.Context, userID string) ([]model.Address, error) {
	if err := s.requireUser(ctx, userID, OpFetch); err != nil {
		return nil, err
	}

	ch := s.group.DoChan(userID, func() (interface{}, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if s.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, s.fetchTimeout)
			defer cancel()
		}

		s.lock(userID)
		defer s.unlock(userID)
		return s.fetch(fetchCtx, userID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, s.fail(ctx, userID, OpFetch, res.Err)
		}
		if res.Shared {
			log.Debug().Str("user_id", userID).Msg("fetch coalesced")
		}
		return model.CloneAddresses(res.Val.([]model.Address)), nil
	}
}

func (s *Store) AddAddress(ctx context.Context, userID string, in model.AddressInput) ([]model.Address, error) {
	if err := s.requireUser(ctx, userID, OpAdd); err != nil {
		return nil, err
	}

	s.lock(userID)
	defer s.unlock(userID)
	s.setLoading(userID, true)
	defer s.setLoading(userID, false)

	return s.addLocked(ctx, userID, in)
}

// HandleSave: có ID thì update, không thì add
func (s *Store) HandleSave(ctx context.Context, userID string, req a.SaveRequest) ([]model.Address, error) {
	if err := s.requireUser(ctx, userID, OpSave); err != nil {
		return nil, err
	}

	s.lock(userID)
	defer s.unlock(userID)
	s.setLoading(userID, true)
	defer s.setLoading(userID, false)

	if req.ID == "" {
		return s.addLocked(ctx, userID, req.Input)
	}

	if err := s.gateway.Update(ctx, userID, req.ID, req.Patch); err != nil {
		return nil, s.fail(ctx, userID, OpSave, err)
	}
	return s.refetch(ctx, userID, OpSave)
}

// HandleDelete xóa address; nếu đó là default và còn address khác thì
// address còn lại đầu tiên (theo thứ tự trong list) trở thành default.
func (s *Store) HandleDelete(ctx context.Context, userID, addressID string) ([]model.Address, error) {
	if err := s.requireUser(ctx, userID, OpDelete); err != nil {
		return nil, err
	}

	s.lock(userID)
	defer s.unlock(userID)
	s.setLoading(userID, true)
	defer s.setLoading(userID, false)

	current, err := s.snapshotOrFetch(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, userID, OpDelete, err)
	}

	wasDefault := false
	if idx := model.IndexOf(current, addressID); idx >= 0 {
		wasDefault = current[idx].IsDefault
	}
	successor := firstOther(current, addressID)

	if err := s.gateway.Delete(ctx, userID, addressID); err != nil {
		return nil, s.fail(ctx, userID, OpDelete, err)
	}

	if wasDefault && successor != "" {
		if _, err := s.gateway.SetDefault(ctx, userID, successor); err != nil {
			s.notify(ctx, userID, OpReassignAfterDrop, err)
			s.scheduleRepair(ctx, userID)
		}
	}

	return s.refetch(ctx, userID, OpDelete)
}

func (s *Store) HandleSetDefault(ctx context.Context, userID, addressID string) ([]model.Address, error) {
	if err := s.requireUser(ctx, userID, OpSetDefault); err != nil {
		return nil, err
	}

	s.lock(userID)
	defer s.unlock(userID)
	s.setLoading(userID, true)
	defer s.setLoading(userID, false)

	if _, err := s.gateway.SetDefault(ctx, userID, addressID); err != nil {
		return nil, s.fail(ctx, userID, OpSetDefault, err)
	}
	return s.refetch(ctx, userID, OpSetDefault)
}

// ========================================
// INTERNALS (caller giữ lock của user)
// ========================================

func (s *Store) addLocked(ctx context.Context, userID string, in model.AddressInput) ([]model.Address, error) {
	current, err := s.snapshotOrFetch(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, userID, OpAdd, err)
	}

	// quyết định default dựa trên snapshot của Store, không đọc lại repository
	if len(current) == 0 {
		in.IsDefault = true
	}

	if _, err := s.gateway.Add(ctx, userID, in); err != nil {
		return nil, s.fail(ctx, userID, OpAdd, err)
	}
	return s.refetch(ctx, userID, OpAdd)
}

func (s *Store) refetch(ctx context.Context, userID, op string) ([]model.Address, error) {
	addrs, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, userID, op, err)
	}
	return model.CloneAddresses(addrs), nil
}

// fetch đọc danh sách từ Gateway và ghi đè snapshot. Lỗi thì snapshot giữ nguyên.
func (s *Store) fetch(ctx context.Context, userID string) ([]model.Address, error) {
	s.setLoading(userID, true)
	defer s.setLoading(userID, false)

	addrs, err := s.gateway.FetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []model.Address{}
	}

	if err := s.cache.Set(ctx, snapshotKey(userID), addrs, s.ttl); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to store address snapshot")
	}
	return addrs, nil
}

func (s *Store) snapshotOrFetch(ctx context.Context, userID string) ([]model.Address, error) {
	if addrs, ok := s.snapshot(ctx, userID); ok {
		return addrs, nil
	}
	return s.fetch(ctx, userID)
}

func (s *Store) snapshot(ctx context.Context, userID string) ([]model.Address, bool) {
	var addrs []model.Address
	found, err := s.cache.Get(ctx, snapshotKey(userID), &addrs)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to read address snapshot")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if addrs == nil {
		addrs = []model.Address{}
	}
	return addrs, true
}

func (s *Store) requireUser(ctx context.Context, userID, op string) error {
	if strings.TrimSpace(userID) == "" {
		return s.fail(ctx, userID, op, a.NewNoCurrentUser())
	}
	return nil
}

func (s *Store) fail(ctx context.Context, userID, op string, err error) error {
	s.notify(ctx, userID, op, err)
	return err
}

func (s *Store) notify(ctx context.Context, userID, op string, err error) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, op, err)
	}
}

func (s *Store) scheduleRepair(ctx context.Context, userID string) {
	if s.repair == nil {
		log.Warn().Str("user_id", userID).Msg("no repair scheduler configured, default left unassigned")
		return
	}
	if err := s.repair.ScheduleRepair(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to schedule default repair")
	}
}

func (s *Store) lock(userID string)   { s.locks.Lock(userID) }
func (s *Store) unlock(userID string) { s.locks.Unlock(userID) }

func (s *Store) setLoading(userID string, on bool) {
	s.loadingMu.Lock()
	defer s.loadingMu.Unlock()

	if on {
		s.loading[userID]++
		return
	}
	if s.loading[userID] <= 1 {
		delete(s.loading, userID)
		return
	}
	s.loading[userID]--
}

func snapshotKey(userID string) string {
	return snapshotKeyPrefix + userID
}

// firstOther trả về id của address đầu tiên (theo thứ tự list) khác excludeID
func firstOther(addrs []model.Address, excludeID string) string {
	for _, addr := range addrs {
		if addr.ID != excludeID {
			return addr.ID
		}
	}
	return ""
}
