package auth

import (
	"context"
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/grandhotel/hotelops/services/auth AuthRepo

// AuthRepo defines the authentication repository interface
type AuthRepo interface {
	// OTP management
	ReplaceOTP(ctx context.Context, otp *models.OTP) error
	GetActiveOTP(ctx context.Context, mobile, code string) (*models.OTP, error)
	RedeemOTP(ctx context.Context, otpID, mobile string) (*models.User, bool, error)
	PurgeOTPs(ctx context.Context, expiredBefore time.Time) (int64, error)

	// Accounts
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
}
