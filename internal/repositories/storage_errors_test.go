package repositories_test

import (
	"context"
	"errors"
	"testing"

	"storerate/internal/apperrors"
	"storerate/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_StorageFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repositories.NewGORMUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.Count(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count users")
	assert.Equal(t, 500, apperrors.Status(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_LookupFailureIsNotNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repositories.NewGORMUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnError(errors.New("timeout"))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByEmail(context.Background(), "a@b.com")
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 500, apperrors.Status(err))

	_, err = repo.GetByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_StorageFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repositories.NewGORMRatingRepository(db)

	mock.ExpectQuery(`SELECT r.id, r.rating`).WillReturnError(errors.New("relation \"ratings\" does not exist"))

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list ratings")
	assert.NoError(t, mock.ExpectationsWereMet())
}
