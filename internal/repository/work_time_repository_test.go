package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestSumBetween(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewWorkTimeRepository(db)

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT SUM\\(time_total\\) FROM `work_times`").
		WithArgs(uint64(7), false, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"SUM(time_total)"}).AddRow(42.5))

	sum, err := repo.SumBetween(7, from, to)
	require.NoError(t, err)
	require.NotNil(t, sum)
	require.Equal(t, 42.5, *sum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumBetweenNoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewWorkTimeRepository(db)

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// SUM over an empty set comes back as a single NULL.
	mock.ExpectQuery("SELECT SUM\\(time_total\\) FROM `work_times`").
		WithArgs(uint64(7), false, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"SUM(time_total)"}).AddRow(nil))

	sum, err := repo.SumBetween(7, from, to)
	require.NoError(t, err)
	require.Nil(t, sum)
	require.NoError(t, mock.ExpectationsWereMet())
}
