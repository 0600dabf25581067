package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/services/auth/mocks"
)

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendOTP_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	c, rec := newJSONContext(http.MethodPost, "/auth/send-otp", `{"mobile": "+15551234567"}`)

	mockAuthUC.EXPECT().
		SendOTP(gomock.Any(), "+15551234567").
		Return(&models.SendOTPResponse{Message: "OTP sent successfully"}, nil)

	err := authHandler.SendOTP(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OTP sent successfully", body["message"])
	assert.NotContains(t, body, "debug")
}

func TestSendOTP_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		mockSetup  func(uc *mocks.MockAuthUC)
		wantStatus int
		wantError  string
	}{
		{
			name: "missing mobile",
			body: `{}`,
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().SendOTP(gomock.Any(), "").
					Return(nil, apperrors.NewValidation("Mobile number is required"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Mobile number is required",
		},
		{
			name:       "invalid payload",
			body:       `{invalid_json}`,
			mockSetup:  func(uc *mocks.MockAuthUC) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request payload",
		},
		{
			name: "dispatch failure",
			body: `{"mobile": "+15551234567"}`,
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().SendOTP(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("failed to send otp: no responders"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to send OTP",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			tc.mockSetup(mockAuthUC)

			c, rec := newJSONContext(http.MethodPost, "/auth/send-otp", tc.body)
			err := NewAuthHandler(mockAuthUC).SendOTP(c)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, decodeBody(t, rec)["error"])
		})
	}
}

func TestVerifyOTP_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthUC := mocks.NewMockAuthUC(ctrl)
	authHandler := NewAuthHandler(mockAuthUC)

	c, rec := newJSONContext(http.MethodPost, "/auth/verify-otp", `{"mobile": "+15551234567", "otp": "482913"}`)

	mockAuthUC.EXPECT().
		VerifyOTP(gomock.Any(), "+15551234567", "482913").
		Return(&models.AuthResponse{
			Message:   "OTP verified successfully",
			Token:     "signed.jwt.token",
			ExpiresAt: 1773565200,
			User:      models.UserProfile{ID: "user-1", Mobile: "+15551234567", Role: models.RoleCustomer},
		}, nil)

	err := authHandler.VerifyOTP(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "OTP verified successfully", body["message"])
	assert.Equal(t, "signed.jwt.token", body["token"])
	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "user-1", user["id"])
	assert.Equal(t, "customer", user["role"])
	assert.Nil(t, user["name"])
	assert.NotContains(t, user, "password_hash")
}

func TestVerifyOTP_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		ucErr      error
		wantStatus int
		wantError  string
	}{
		{"missing fields", apperrors.NewValidation("Mobile number and OTP are required"), http.StatusBadRequest, "Mobile number and OTP are required"},
		{"invalid code", apperrors.ErrInvalidCode, http.StatusBadRequest, "Invalid OTP"},
		{"expired code", apperrors.ErrExpiredCode, http.StatusBadRequest, "OTP has expired"},
		{"missing secret", fmt.Errorf("failed to generate token: %w", apperrors.ErrConfiguration), http.StatusInternalServerError, "Internal Server Error"},
		{"storage failure", errors.New("failed to redeem otp: connection reset"), http.StatusInternalServerError, "Failed to verify OTP"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			mockAuthUC.EXPECT().VerifyOTP(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.ucErr)

			c, rec := newJSONContext(http.MethodPost, "/auth/verify-otp", `{"mobile": "+15551234567", "otp": "000000"}`)
			err := NewAuthHandler(mockAuthUC).VerifyOTP(c)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tc.wantError, body["error"])
			assert.NotContains(t, body["error"], "JWT")
		})
	}
}

func TestLogin(t *testing.T) {
	testCases := []struct {
		name       string
		mockSetup  func(uc *mocks.MockAuthUC)
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{
			name: "success",
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().Login(gomock.Any(), "frontdesk", "s3cret").
					Return(&models.LoginResponse{Message: "Login successful", Token: "tok"}, nil)
			},
			wantStatus: http.StatusOK,
			wantKey:    "message",
			wantValue:  "Login successful",
		},
		{
			name: "bad credentials",
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, apperrors.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
			wantKey:    "error",
			wantValue:  "Invalid credentials",
		},
		{
			name: "missing fields",
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, apperrors.NewValidation("Username and password are required"))
			},
			wantStatus: http.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "Username and password are required",
		},
		{
			name: "unexpected failure",
			mockSetup: func(uc *mocks.MockAuthUC) {
				uc.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantKey:    "error",
			wantValue:  "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockAuthUC := mocks.NewMockAuthUC(ctrl)
			tc.mockSetup(mockAuthUC)

			c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username": "frontdesk", "password": "s3cret"}`)
			err := NewAuthHandler(mockAuthUC).Login(c)

			assert.NoError(t, err)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantValue, decodeBody(t, rec)[tc.wantKey])
		})
	}
}
