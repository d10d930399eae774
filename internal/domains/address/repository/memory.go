package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

type memoryDocument struct {
	key       string
	addresses []model.Address
	revision  int64
}

// MemoryRepository giữ user document trong RAM; dùng cho môi trường dev và test.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*memoryDocument
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		docs: make(map[string]*memoryDocument),
	}
}

// Seed tạo user document rỗng (hoặc với addresses cho trước) nếu chưa tồn tại
func (r *MemoryRepository) Seed(userID string, addresses ...model.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[userID]; ok {
		return
	}
	r.docs[userID] = &memoryDocument{
		key:       uuid.NewString(),
		addresses: model.CloneAddresses(addresses),
	}
}

func (r *MemoryRepository) FindByUserID(ctx context.Context, userID string) (*model.AddressBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, a.NewReadFailed(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[userID]
	if !ok {
		return nil, a.NewUserNotFound(userID)
	}

	return &model.AddressBook{
		Key:       doc.key,
		UserID:    userID,
		Addresses: model.CloneAddresses(doc.addresses),
		Revision:  doc.revision,
	}, nil
}

func (r *MemoryRepository) SaveAddresses(ctx context.Context, book *model.AddressBook, addresses []model.Address) error {
	if err := ctx.Err(); err != nil {
		return a.NewWriteFailed(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[book.UserID]
	if !ok || doc.key != book.Key {
		return a.NewWriteFailed(a.NewUserNotFound(book.UserID))
	}
	if doc.revision != book.Revision {
		return a.NewConflict(book.UserID, book.Revision)
	}

	doc.addresses = model.CloneAddresses(addresses)
	doc.revision++

	book.Addresses = addresses
	book.Revision = doc.revision
	return nil
}

func (r *MemoryRepository) ListUserIDs(ctx context.Context, after string, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.docs))
	for id, doc := range r.docs {
		if id > after && len(doc.addresses) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ a.Repository = (*MemoryRepository)(nil)
