package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandhotel/hotelops/internal/pkg/models"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name   string
		config models.DatabaseConfig
		want   string
	}{
		{
			name: "explicit ssl mode",
			config: models.DatabaseConfig{
				Host: "db", Port: 5432, Username: "hotel", Password: "pw", Database: "hotel", SSLMode: "require",
			},
			want: "postgres://hotel:pw@db:5432/hotel?sslmode=require",
		},
		{
			name: "ssl mode defaults to disable",
			config: models.DatabaseConfig{
				Host: "localhost", Port: 5433, Username: "postgres", Database: "test",
			},
			want: "postgres://postgres:@localhost:5433/test?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSN(tt.config))
		})
	}
}

func TestPostgresClient_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		client := NewPostgresClientFromDB(sqlx.NewDb(mockDB, "sqlmock"))

		mock.ExpectPing()

		assert.NoError(t, client.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreachable", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		client := NewPostgresClientFromDB(sqlx.NewDb(mockDB, "sqlmock"))

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		assert.Error(t, client.Ping(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresClient_Close(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	client := NewPostgresClientFromDB(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectClose()

	assert.NotNil(t, client.GetDB())
	assert.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
