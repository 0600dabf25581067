package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	jwtpkg "github.com/grandhotel/hotelops/internal/pkg/jwt"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/metrics"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/internal/utils"
)

// SendOTP issues a fresh code for the mobile, replacing any earlier one, and
// hands it to the SMS gateway
func (u *AuthUC) SendOTP(ctx context.Context, mobile string) (resp *models.SendOTPResponse, err error) {
	mobile = utils.NormalizeMobile(mobile)
	if mobile == "" {
		return nil, apperrors.NewValidation("Mobile number is required")
	}

	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.OTPIssuedTotal.WithLabelValues(result).Inc()
	}()

	code, err := u.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &models.OTP{
		Mobile:    mobile,
		Code:      code,
		ExpiresAt: u.now().Add(u.cfg.OTP.TTL),
	}

	if err := u.authRepo.ReplaceOTP(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}

	if err := u.smsGW.SendOTP(ctx, mobile, code, otp.ExpiresAt); err != nil {
		logger.Error("Failed to dispatch OTP",
			logger.String("mobile", utils.MaskPhoneNumber(mobile)),
			logger.Err(err))
		return nil, fmt.Errorf("failed to send otp: %w", err)
	}

	logger.Info("OTP issued",
		logger.String("mobile", utils.MaskPhoneNumber(mobile)),
		logger.Time("expires_at", otp.ExpiresAt))

	resp = &models.SendOTPResponse{Message: "OTP sent successfully"}
	if u.cfg.OTP.ExposeDebug {
		resp.Debug = fmt.Sprintf("OTP: %s (for demo purposes)", code)
	}
	return resp, nil
}

// VerifyOTP redeems a code and issues a session token for the account bound
// to the mobile, creating a customer account on first login.
// Unknown, mismatched and already used codes all yield apperrors.ErrInvalidCode.
func (u *AuthUC) VerifyOTP(ctx context.Context, mobile, code string) (resp *models.AuthResponse, err error) {
	mobile = utils.NormalizeMobile(mobile)
	if mobile == "" || code == "" {
		return nil, apperrors.NewValidation("Mobile number and OTP are required")
	}

	defer func() {
		metrics.OTPVerificationsTotal.WithLabelValues(verificationResult(err)).Inc()
	}()

	otp, err := u.authRepo.GetActiveOTP(ctx, mobile, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("OTP rejected",
				logger.String("mobile", utils.MaskPhoneNumber(mobile)),
				logger.String("reason", "no matching unverified code"))
			return nil, apperrors.ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}

	if otp.IsExpired(u.now()) {
		return nil, apperrors.ErrExpiredCode
	}

	user, created, err := u.authRepo.RedeemOTP(ctx, otp.ID, mobile)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRedeemed) {
			logger.Debug("OTP rejected",
				logger.String("mobile", utils.MaskPhoneNumber(mobile)),
				logger.String("reason", "code already redeemed"))
			return nil, apperrors.ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to redeem otp: %w", err)
	}

	if created {
		logger.Info("Customer account created",
			logger.String("user_id", user.ID),
			logger.String("mobile", utils.MaskPhoneNumber(mobile)))
	}

	profile := user.Profile()
	token, expiresAt, err := jwtpkg.GenerateToken(user.ID, profile.Mobile, user.Role, u.cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		Message:   "OTP verified successfully",
		Token:     token,
		ExpiresAt: expiresAt,
		User:      profile,
	}, nil
}

func verificationResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, apperrors.ErrInvalidCode):
		return metrics.ResultInvalid
	case errors.Is(err, apperrors.ErrExpiredCode):
		return metrics.ResultExpired
	default:
		return metrics.ResultError
	}
}
