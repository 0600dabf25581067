package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/internal/utils"
	"github.com/grandhotel/hotelops/services/auth"
)

// AuthHandler handles OTP and password authentication requests
type AuthHandler struct {
	authUC auth.AuthUC
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC auth.AuthUC) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

// SendOTP handles POST /auth/send-otp
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for OTP issuance",
			logger.Err(err),
			logger.String("endpoint", "SendOTP"),
		)
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.authUC.SendOTP(c.Request().Context(), req.Mobile)
	if err != nil {
		if msg, ok := apperrors.ValidationMessage(err); ok {
			return utils.BadRequestResponse(c, msg)
		}
		logger.Error("Failed to send OTP",
			logger.Err(err),
			logger.String("mobile", utils.MaskPhoneNumber(req.Mobile)),
		)
		return utils.InternalServerErrorResponse(c, "Failed to send OTP")
	}

	return utils.JSONResponse(c, http.StatusOK, resp)
}

// VerifyOTP handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Invalid request payload for OTP verification",
			logger.Err(err),
			logger.String("endpoint", "VerifyOTP"),
		)
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.authUC.VerifyOTP(c.Request().Context(), req.Mobile, req.OTP)
	if err != nil {
		if msg, ok := apperrors.ValidationMessage(err); ok {
			return utils.BadRequestResponse(c, msg)
		}
		switch {
		case errors.Is(err, apperrors.ErrInvalidCode):
			return utils.BadRequestResponse(c, "Invalid OTP")
		case errors.Is(err, apperrors.ErrExpiredCode):
			return utils.BadRequestResponse(c, "OTP has expired")
		case errors.Is(err, apperrors.ErrConfiguration):
			logger.Error("Session issuance misconfigured", logger.Err(err))
			return utils.InternalServerErrorResponse(c, "Internal Server Error")
		}
		logger.Error("Failed to verify OTP",
			logger.Err(err),
			logger.String("mobile", utils.MaskPhoneNumber(req.Mobile)),
		)
		return utils.InternalServerErrorResponse(c, "Failed to verify OTP")
	}

	return utils.JSONResponse(c, http.StatusOK, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request payload")
	}

	resp, err := h.authUC.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if msg, ok := apperrors.ValidationMessage(err); ok {
			return utils.BadRequestResponse(c, msg)
		}
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return utils.UnauthorizedResponse(c, "Invalid credentials")
		}
		logger.Error("Failed to log in", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Internal Server Error")
	}

	return utils.JSONResponse(c, http.StatusOK, resp)
}
