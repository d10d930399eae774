package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

// Operation names, also used as the "op" metric label
const (
	OpFetchAll      = "fetch_all"
	OpAdd           = "add"
	OpUpdate        = "update"
	OpDelete        = "delete"
	OpSetDefault    = "set_default"
	OpRepairDefault = "repair_default"
)

// Observer nhận kết quả của mỗi operation (metrics)
type Observer interface {
	ObserveGatewayOp(op string, err error)
}

type Option func(*Gateway)

// WithClock thay đồng hồ dùng cho createdAt
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDGenerator thay bộ sinh address id
func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) { g.newID = newID }
}

func WithObserver(o Observer) Option {
	return func(g *Gateway) { g.observer = o }
}

// Gateway: mọi mutation là một lần đọc document và một lần ghi có điều kiện theo revision.
// Không retry; CONFLICT được trả thẳng cho caller.
type Gateway struct {
	repo     a.Repository
	now      func() time.Time
	newID    func() string
	observer Observer
}

func NewGateway(repo a.Repository, opts ...Option) *Gateway {
	g := &Gateway{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ a.GatewayInterface = (*Gateway)(nil)

// ========================================
// READ
// ========================================

func (g *Gateway) FetchAll(ctx context.Context, userID string) (addrs []model.Address, err error) {
	defer g.observe(OpFetchAll, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return book.Addresses, nil
}

// ========================================
// MUTATIONS
// ========================================

func (g *Gateway) Add(ctx context.Context, userID string, in model.AddressInput) (created *model.Address, err error) {
	defer g.observe(OpAdd, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	addrs := model.CloneAddresses(book.Addresses)

	// Address đầu tiên luôn là default
	if len(addrs) == 0 {
		in.IsDefault = true
	}

	addr := model.NewAddress(g.newID(), in, g.now().UTC())
	if addr.IsDefault {
		clearDefaults(addrs)
	}
	addrs = append(addrs, addr)

	if err := g.save(ctx, book, addrs); err != nil {
		return nil, err
	}

	log.Debug().Str("user_id", userID).Str("address_id", addr.ID).Bool("is_default", addr.IsDefault).Msg("address added")
	return &addr, nil
}

func (g *Gateway) Update(ctx context.Context, userID, addressID string, patch model.AddressPatch) (err error) {
	defer g.observe(OpUpdate, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return err
	}

	addrs := model.CloneAddresses(book.Addresses)
	idx := model.IndexOf(addrs, addressID)
	if idx < 0 {
		return a.NewAddressNotFound(addressID)
	}

	// Bỏ default chỉ được làm qua SetDefault trên address khác
	if patch.IsDefault != nil && !*patch.IsDefault && addrs[idx].IsDefault {
		return a.NewCannotUnsetDefault(addressID)
	}

	merged := model.ApplyPatch(addrs[idx], patch)
	if merged.IsDefault {
		clearDefaults(addrs)
	}
	addrs[idx] = merged

	return g.save(ctx, book, addrs)
}

func (g *Gateway) Delete(ctx context.Context, userID, addressID string) (err error) {
	defer g.observe(OpDelete, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return err
	}

	idx := model.IndexOf(book.Addresses, addressID)
	if idx < 0 {
		return a.NewAddressNotFound(addressID)
	}

	addrs := make([]model.Address, 0, len(book.Addresses)-1)
	addrs = append(addrs, book.Addresses[:idx]...)
	addrs = append(addrs, book.Addresses[idx+1:]...)

	return g.save(ctx, book, addrs)
}

func (g *Gateway) SetDefault(ctx context.Context, userID, addressID string) (out []model.Address, err error) {
	defer g.observe(OpSetDefault, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if model.IndexOf(book.Addresses, addressID) < 0 {
		return nil, a.NewAddressNotFound(addressID)
	}

	addrs := model.CloneAddresses(book.Addresses)
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].ID == addressID
	}

	if err := g.save(ctx, book, addrs); err != nil {
		return nil, err
	}
	return model.CloneAddresses(addrs), nil
}

// RepairDefault đưa danh sách về đúng một default: giữ default đầu tiên nếu có,
// nếu không thì chọn address đầu tiên theo thứ tự trong list.
func (g *Gateway) RepairDefault(ctx context.Context, userID string) (wrote bool, err error) {
	defer g.observe(OpRepairDefault, &err)

	book, err := g.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(book.Addresses) == 0 || model.CountDefaults(book.Addresses) == 1 {
		return false, nil
	}

	keep := book.Addresses[0].ID
	if d, ok := model.FindDefault(book.Addresses); ok {
		keep = d.ID
	}

	addrs := model.CloneAddresses(book.Addresses)
	for i := range addrs {
		addrs[i].IsDefault = addrs[i].ID == keep
	}

	if err := g.save(ctx, book, addrs); err != nil {
		return false, err
	}

	log.Info().Str("user_id", userID).Str("default_id", keep).Msg("default address repaired")
	return true, nil
}

// ========================================
// HELPERS
// ========================================

func (g *Gateway) load(ctx context.Context, userID string) (*model.AddressBook, error) {
	book, err := g.repo.FindByUserID(ctx, userID)
	if err != nil {
		if !a.IsDomainError(err) {
			err = a.NewReadFailed(err)
		}
		return nil, err
	}
	if book.Addresses == nil {
		book.Addresses = []model.Address{}
	}
	return book, nil
}

func (g *Gateway) save(ctx context.Context, book *model.AddressBook, addrs []model.Address) error {
	err := g.repo.SaveAddresses(ctx, book, addrs)
	if err == nil {
		return nil
	}
	if !a.IsDomainError(err) {
		err = a.NewWriteFailed(err)
	}
	log.Warn().Err(err).Str("user_id", book.UserID).Int64("revision", book.Revision).Msg("address write rejected")
	return err
}

func (g *Gateway) observe(op string, err *error) {
	if g.observer != nil {
		g.observer.ObserveGatewayOp(op, *err)
	}
}

func clearDefaults(addrs []model.Address) {
	for i := range addrs {
		addrs[i].IsDefault = false
	}
}
