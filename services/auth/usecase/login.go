package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	jwtpkg "github.com/grandhotel/hotelops/internal/pkg/jwt"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/metrics"
	"github.com/grandhotel/hotelops/internal/pkg/models"
)

// Login authenticates a staff or admin account by username and password
func (u *AuthUC) Login(ctx context.Context, username, password string) (resp *models.LoginResponse, err error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidation("Username and password are required")
	}

	defer func() {
		result := metrics.ResultSuccess
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			result = metrics.ResultInvalid
		case err != nil:
			result = metrics.ResultError
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	user, err := u.authRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive || user.PasswordHash == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	profile := user.Profile()
	token, _, err := jwtpkg.GenerateToken(user.ID, profile.Mobile, user.Role, u.cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in",
		logger.String("user_id", user.ID),
		logger.String("role", user.Role))

	return &models.LoginResponse{
		Message: "Login successful",
		Token:   token,
	}, nil
}
