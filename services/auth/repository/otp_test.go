package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/models"
)

const (
	testOTPID  = "0b7c6f1e-3a4d-4c1b-9f3e-2d5a6b7c8d9e"
	testUserID = "550e8400-e29b-41d4-a716-446655440000"
	testMobile = "+15551234567"
)

var userRowColumns = []string{"id", "username", "password_hash", "mobile", "name", "email", "role", "is_active", "created_at", "updated_at"}

func setupAuthRepoTest(t *testing.T) (*AuthRepo, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	repo := NewAuthRepo(&models.Config{}, sqlxDB)

	cleanup := func() {
		sqlxDB.Close()
	}

	return repo, mock, cleanup
}

func TestReplaceOTP(t *testing.T) {
	expiresAt := time.Date(2026, 1, 2, 10, 5, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, otp *models.OTP, err error)
	}{
		{
			name: "Success - previous codes deleted in same transaction",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("^DELETE FROM otp_verifications WHERE mobile = \\$1").
					WithArgs(testMobile).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectQuery("^INSERT INTO otp_verifications (.+) RETURNING id, created_at").
					WithArgs(testMobile, "482913", expiresAt).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(testOTPID, createdAt))
				mock.ExpectCommit()
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.NoError(t, err)
				assert.Equal(t, testOTPID, otp.ID)
				assert.Equal(t, createdAt, otp.CreatedAt)
				assert.False(t, otp.IsVerified)
			},
		},
		{
			name: "Error - delete fails and rolls back",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("^DELETE FROM otp_verifications").
					WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to delete previous otp")
				assert.Empty(t, otp.ID)
			},
		},
		{
			name: "Error - insert fails and rolls back",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("^DELETE FROM otp_verifications").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("^INSERT INTO otp_verifications").
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to insert otp")
			},
		},
		{
			name: "Error - begin fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to begin transaction")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupAuthRepoTest(t)
			defer cleanup()

			tc.mockSetup(mock)

			otp := &models.OTP{Mobile: testMobile, Code: "482913", ExpiresAt: expiresAt}
			err := repo.ReplaceOTP(context.Background(), otp)

			tc.assertFunc(t, otp, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetActiveOTP(t *testing.T) {
	expiresAt := time.Now().Add(5 * time.Minute)

	testCases := []struct {
		name       string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, otp *models.OTP, err error)
	}{
		{
			name: "Success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "mobile", "otp", "is_verified", "expires_at", "created_at"}).
					AddRow(testOTPID, testMobile, "482913", false, expiresAt, time.Now())
				mock.ExpectQuery("^SELECT (.+) FROM otp_verifications WHERE mobile = \\$1 AND otp = \\$2 AND is_verified = FALSE ORDER BY created_at DESC LIMIT 1").
					WithArgs(testMobile, "482913").
					WillReturnRows(rows)
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.NoError(t, err)
				assert.Equal(t, testOTPID, otp.ID)
				assert.Equal(t, "482913", otp.Code)
				assert.False(t, otp.IsVerified)
			},
		},
		{
			name: "Not found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("^SELECT (.+) FROM otp_verifications").
					WithArgs(testMobile, "482913").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				assert.ErrorIs(t, err, apperrors.ErrNotFound)
				assert.Nil(t, otp)
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("^SELECT (.+) FROM otp_verifications").
					WillReturnError(errors.New("timeout"))
			},
			assertFunc: func(t *testing.T, otp *models.OTP, err error) {
				require.Error(t, err)
				assert.NotErrorIs(t, err, apperrors.ErrNotFound)
				assert.Contains(t, err.Error(), "failed to get otp")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupAuthRepoTest(t)
			defer cleanup()

			tc.mockSetup(mock)

			otp, err := repo.GetActiveOTP(context.Background(), testMobile, "482913")

			tc.assertFunc(t, otp, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeemOTP(t *testing.T) {
	redeemSQL := regexp.QuoteMeta("UPDATE otp_verifications SET is_verified = TRUE WHERE id = $1 AND is_verified = FALSE")
	upsertSQL := "^INSERT INTO users (.+) ON CONFLICT \\(mobile\\) WHERE mobile IS NOT NULL DO NOTHING"
	selectSQL := "^SELECT (.+) FROM users WHERE mobile = \\$1"

	customerRow := func() *sqlmock.Rows {
		return sqlmock.NewRows(userRowColumns).
			AddRow(testUserID, nil, nil, testMobile, nil, nil, models.RoleCustomer, true, time.Now(), time.Now())
	}

	testCases := []struct {
		name       string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, user *models.User, created bool, err error)
	}{
		{
			name: "Success - new customer created",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(redeemSQL).WithArgs(testOTPID).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(upsertSQL).WithArgs(testMobile, models.RoleCustomer).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(selectSQL).WithArgs(testMobile).WillReturnRows(customerRow())
				mock.ExpectCommit()
			},
			assertFunc: func(t *testing.T, user *models.User, created bool, err error) {
				require.NoError(t, err)
				assert.True(t, created)
				assert.Equal(t, testUserID, user.ID)
				assert.Equal(t, models.RoleCustomer, user.Role)
				assert.Nil(t, user.PasswordHash)
				require.NotNil(t, user.Mobile)
				assert.Equal(t, testMobile, *user.Mobile)
			},
		},
		{
			name: "Success - existing account reused",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(redeemSQL).WithArgs(testOTPID).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(upsertSQL).WithArgs(testMobile, models.RoleCustomer).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectSQL).WithArgs(testMobile).WillReturnRows(customerRow())
				mock.ExpectCommit()
			},
			assertFunc: func(t *testing.T, user *models.User, created bool, err error) {
				require.NoError(t, err)
				assert.False(t, created)
				assert.Equal(t, testUserID, user.ID)
			},
		},
		{
			name: "Lost race - code already redeemed",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(redeemSQL).WithArgs(testOTPID).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			assertFunc: func(t *testing.T, user *models.User, created bool, err error) {
				assert.ErrorIs(t, err, apperrors.ErrAlreadyRedeemed)
				assert.Nil(t, user)
				assert.False(t, created)
			},
		},
		{
			name: "Account insert fails - redemption rolled back",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(redeemSQL).WithArgs(testOTPID).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(upsertSQL).WillReturnError(errors.New("check constraint violated"))
				mock.ExpectRollback()
			},
			assertFunc: func(t *testing.T, user *models.User, created bool, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create user")
				assert.Nil(t, user)
			},
		},
		{
			name: "Commit fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(redeemSQL).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(upsertSQL).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(selectSQL).WillReturnRows(customerRow())
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			assertFunc: func(t *testing.T, user *models.User, created bool, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to commit transaction")
				assert.Nil(t, user)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := setupAuthRepoTest(t)
			defer cleanup()

			tc.mockSetup(mock)

			user, created, err := repo.RedeemOTP(context.Background(), testOTPID, testMobile)

			tc.assertFunc(t, user, created, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPurgeOTPs(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		repo, mock, cleanup := setupAuthRepoTest(t)
		defer cleanup()

		mock.ExpectExec("^DELETE FROM otp_verifications WHERE expires_at < \\$1").
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 7))

		n, err := repo.PurgeOTPs(context.Background(), cutoff)

		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		repo, mock, cleanup := setupAuthRepoTest(t)
		defer cleanup()

		mock.ExpectExec("^DELETE FROM otp_verifications").WillReturnError(errors.New("lock timeout"))

		n, err := repo.PurgeOTPs(context.Background(), cutoff)

		assert.Error(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
