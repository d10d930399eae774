package address

import (
	"context"

	"storefront-backend/internal/domains/address/model"
)

// Repository is the document store holding one document per user with an
// embedded `addresses` array. It offers whole-document read and whole-array
// overwrite only; there is no per-element mutation.
type Repository interface {
	// FindByUserID looks the document up by its logical `id` field, not the
	// internal document key. Returns ErrUserNotFound when nothing matches.
	FindByUserID(ctx context.Context, userID string) (*model.AddressBook, error)

	// SaveAddresses overwrites the `addresses` field of book's document, but only
	// if the stored revision still equals book.Revision. Returns ErrConflict when
	// it moved and ErrWriteFailed for any other failure.
	SaveAddresses(ctx context.Context, book *model.AddressBook, addresses []model.Address) error

	// ListUserIDs pages through user ids ordered ascending, starting after `after`.
	ListUserIDs(ctx context.Context, after string, limit int) ([]string, error)

	// Ping kiểm tra kết nối tới document store
	Ping(ctx context.Context) error
}
