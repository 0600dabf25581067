package auth

import (
	"context"

	"github.com/grandhotel/hotelops/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/grandhotel/hotelops/services/auth AuthUC

// AuthUC represents the authentication usecase interface
type AuthUC interface {
	// OTP flow
	SendOTP(ctx context.Context, mobile string) (*models.SendOTPResponse, error)
	VerifyOTP(ctx context.Context, mobile, code string) (*models.AuthResponse, error)

	// Password flow
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)

	// Accounts
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error)

	// Maintenance
	PurgeExpiredOTPs(ctx context.Context) (int64, error)
}
