package usecase

import (
	"context"
	"fmt"

	"github.com/grandhotel/hotelops/internal/pkg/models"
)

// GetProfile returns the public view of the account
func (u *AuthUC) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := u.authRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

// ListUsers lists accounts for the back office
func (u *AuthUC) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	users, err := u.authRepo.ListUsers(ctx, filter.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
