package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

func newPostgresMock(t *testing.T) (pgxmock.PgxPoolIface, a.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresRepository(mock)
}

func TestPostgresRepository_FindByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the addresses column", func(t *testing.T) {
		mock, repo := newPostgresMock(t)

		rows := pgxmock.NewRows([]string{"doc_id", "user_id", "addresses", "address_revision"}).
			AddRow("doc-1", "u1", []byte(`[{"id":"a1","recipientName":"Lan","phone":"0901","isDefault":true}]`), int64(4))
		mock.ExpectQuery("SELECT doc_id, user_id, addresses, address_revision").
			WithArgs("u1").
			WillReturnRows(rows)

		book, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "doc-1", book.Key)
		assert.Equal(t, int64(4), book.Revision)
		require.Len(t, book.Addresses, 1)
		assert.Equal(t, "Lan", book.Addresses[0].RecipientName)
		assert.True(t, book.Addresses[0].IsDefault)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null column reads as empty list", func(t *testing.T) {
		mock, repo := newPostgresMock(t)

		rows := pgxmock.NewRows([]string{"doc_id", "user_id", "addresses", "address_revision"}).
			AddRow("doc-1", "u1", []byte(nil), int64(0))
		mock.ExpectQuery("SELECT doc_id").WithArgs("u1").WillReturnRows(rows)

		book, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.NotNil(t, book.Addresses)
		assert.Empty(t, book.Addresses)
	})

	t.Run("no row is user not found", func(t *testing.T) {
		mock, repo := newPostgresMock(t)
		mock.ExpectQuery("SELECT doc_id").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByUserID(ctx, "ghost")
		assert.True(t, a.IsUserNotFound(err))
	})

	t.Run("driver error is read failed", func(t *testing.T) {
		mock, repo := newPostgresMock(t)
		mock.ExpectQuery("SELECT doc_id").WithArgs("u1").WillReturnError(errors.New("connection refused"))

		_, err := repo.FindByUserID(ctx, "u1")
		assert.Equal(t, a.CodeReadFailed, a.GetErrorCode(err))
	})
}

func TestPostgresRepository_SaveAddresses(t *testing.T) {
	ctx := context.Background()
	addrs := []model.Address{{ID: "a1", IsDefault: true}}

	t.Run("bumps revision on success", func(t *testing.T) {
		mock, repo := newPostgresMock(t)
		mock.ExpectExec("UPDATE user_documents").
			WithArgs(pgxmock.AnyArg(), "doc-1", int64(2)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		book := &model.AddressBook{Key: "doc-1", UserID: "u1", Revision: 2}
		require.NoError(t, repo.SaveAddresses(ctx, book, addrs))
		assert.Equal(t, int64(3), book.Revision)
		assert.Equal(t, addrs, book.Addresses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows means the revision moved", func(t *testing.T) {
		mock, repo := newPostgresMock(t)
		mock.ExpectExec("UPDATE user_documents").
			WithArgs(pgxmock.AnyArg(), "doc-1", int64(2)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		book := &model.AddressBook{Key: "doc-1", UserID: "u1", Revision: 2}
		err := repo.SaveAddresses(ctx, book, addrs)
		assert.True(t, a.IsConflict(err))
		assert.Equal(t, int64(2), book.Revision)
	})

	t.Run("exec error is write failed", func(t *testing.T) {
		mock, repo := newPostgresMock(t)
		mock.ExpectExec("UPDATE user_documents").WillReturnError(errors.New("timeout"))

		err := repo.SaveAddresses(ctx, &model.AddressBook{Key: "doc-1", UserID: "u1"}, addrs)
		assert.True(t, a.IsWriteFailed(err))
	})
}

func TestPostgresRepository_ListUserIDs(t *testing.T) {
	mock, repo := newPostgresMock(t)

	rows := pgxmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2")
	mock.ExpectQuery("jsonb_array_length").WithArgs("", 50).WillReturnRows(rows)

	ids, err := repo.ListUserIDs(context.Background(), "", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
