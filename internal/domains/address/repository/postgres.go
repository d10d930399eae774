package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
	"storefront-backend/internal/infrastructure/database"
)

// postgresRepository lưu user document trong bảng user_documents,
// mảng addresses nằm trong một cột JSONB.
type postgresRepository struct {
	pool database.DBTX
}

func NewPostgresRepository(pool database.DBTX) a.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// FindByUserID đọc nguyên document theo user_id (logical id, không phải doc_id)
func (r *postgresRepository) FindByUserID(ctx context.Context, userID string) (*model.AddressBook, error) {
	query := `
    SELECT doc_id, user_id, addresses, address_revision
    FROM user_documents
    WHERE user_id = $1
    LIMIT 1
  `

	var (
		book documentRow
		raw  []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&book.DocID, &book.UserID, &raw, &book.Revision,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, a.NewUserNotFound(userID)
		}
		return nil, a.NewReadFailed(err)
	}

	addresses, err := decodeAddresses(raw)
	if err != nil {
		return nil, a.NewReadFailed(err)
	}

	return &model.AddressBook{
		Key:       book.DocID,
		UserID:    book.UserID,
		Addresses: addresses,
		Revision:  book.Revision,
	}, nil
}

// SaveAddresses ghi đè cột addresses nếu address_revision chưa đổi kể từ lúc đọc
func (r *postgresRepository) SaveAddresses(ctx context.Context, book *model.AddressBook, addresses []model.Address) error {
	raw, err := json.Marshal(nonNil(addresses))
	if err != nil {
		return a.NewWriteFailed(err)
	}

	query := `
    UPDATE user_documents
    SET addresses = $1, address_revision = address_revision + 1
    WHERE doc_id = $2 AND address_revision = $3
  `

	tag, err := r.pool.Exec(ctx, query, raw, book.Key, book.Revision)
	if err != nil {
		return a.NewWriteFailed(err)
	}
	if tag.RowsAffected() == 0 {
		return a.NewConflict(book.UserID, book.Revision)
	}

	book.Addresses = addresses
	book.Revision++
	return nil
}

// ListUserIDs trả về user id có ít nhất một address, sắp xếp tăng dần
func (r *postgresRepository) ListUserIDs(ctx context.Context, after string, limit int) ([]string, error) {
	query := `
    SELECT user_id
    FROM user_documents
    WHERE user_id > $1 AND jsonb_array_length(COALESCE(addresses, '[]'::jsonb)) > 0
    ORDER BY user_id
    LIMIT $2
  `

	rows, err := r.pool.Query(ctx, query, after, limit)
	if err != nil {
		return nil, a.NewReadFailed(err)
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, a.NewReadFailed(err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, a.NewReadFailed(err)
	}

	return ids, nil
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// documentRow là một dòng của bảng user_documents
type documentRow struct {
	DocID    string
	UserID   string
	Revision int64
}

func decodeAddresses(raw []byte) ([]model.Address, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []model.Address{}, nil
	}
	var addresses []model.Address
	if err := json.Unmarshal(raw, &addresses); err != nil {
		return nil, err
	}
	return nonNil(addresses), nil
}

func nonNil(addresses []model.Address) []model.Address {
	if addresses == nil {
		return []model.Address{}
	}
	return addresses
}
