package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCareerRepositoryResolveExisting(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCareerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Engineering"))

	career, err := repo.ResolveByName(context.Background(), nil, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, int64(7), career.ID)
	assert.Equal(t, "Engineering", career.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCareerRepositoryResolveCreates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCareerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO careers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	career, err := repo.ResolveByName(context.Background(), nil, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, int64(3), career.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCareerRepositoryResolveLostRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCareerRepository(db)

	// Lookup misses, the insert conflicts with a concurrent writer, the
	// reread returns the winner's row.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO careers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Engineering").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(11, "Engineering"))

	career, err := repo.ResolveByName(context.Background(), nil, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, int64(11), career.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCareerRepositoryResolveIdempotent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCareerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Law").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO careers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id")).
		WithArgs("Law").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM careers WHERE name = $1")).
		WithArgs("Law").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Law"))

	first, err := repo.ResolveByName(context.Background(), nil, "Law")
	require.NoError(t, err)
	second, err := repo.ResolveByName(context.Background(), nil, "Law")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
