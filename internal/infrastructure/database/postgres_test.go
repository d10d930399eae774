package database

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserDocuments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_documents").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, EnsureUserDocuments(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedUserDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts every user in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_documents").
			WithArgs(pgxmock.AnyArg(), "u1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("INSERT INTO user_documents").
			WithArgs(pgxmock.AnyArg(), "u2").
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectCommit()

		require.NoError(t, SeedUserDocuments(ctx, mock, []string{"u1", "u2"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when an insert fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO user_documents").
			WithArgs(pgxmock.AnyArg(), "u1").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err = SeedUserDocuments(ctx, mock, []string{"u1"})
		assert.ErrorContains(t, err, "seed user u1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuildConnectionString(t *testing.T) {
	db := NewPostgresDB(&DBConfig{Host: "db", Port: 5432, Username: "app", Password: "pw", DBName: "storefront", SSLMode: "disable"})
	dsn := db.buildConnectionString()

	assert.Contains(t, dsn, "db")
	assert.Contains(t, dsn, "5432")
	assert.Contains(t, dsn, "storefront")
}
