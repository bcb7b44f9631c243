package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*StoreRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return NewStoreRepository(gormDB), mock
}

func TestStoreRepository_Read(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(sqlmock.Sqlmock)
		wantValue string
		wantOK    bool
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(m sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"entry_key", "value", "updated_at"}).
					AddRow("user", `{"id":"1"}`, time.Now())
				m.ExpectQuery("SELECT \\* FROM `store_entries` WHERE entry_key = \\?").WillReturnRows(rows)
			},
			wantValue: `{"id":"1"}`,
			wantOK:    true,
		},
		{
			name: "missing",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT \\* FROM `store_entries`").
					WillReturnRows(sqlmock.NewRows([]string{"entry_key", "value", "updated_at"}))
			},
		},
		{
			name: "database error",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT \\* FROM `store_entries`").WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tt.setupMock(mock)

			value, ok, err := repo.Read(context.Background(), "user")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantOK, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStoreRepository_WriteUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO `store_entries` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Write(context.Background(), "users", "{}"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRepository_Remove(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM `store_entries` WHERE entry_key = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Remove(context.Background(), "user"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
