package models

import (
	"time"
)

// OTP represents a one-time password bound to a mobile number
type OTP struct {
	ID         string    `json:"id" db:"id"`
	Mobile     string    `json:"mobile" db:"mobile"`
	Code       string    `json:"-" db:"otp"`
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the code is past its expiry at the given instant
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// SendOTPRequest represents a request to issue an OTP
type SendOTPRequest struct {
	Mobile string `json:"mobile"`
}

// SendOTPResponse is returned after a code has been dispatched
type SendOTPResponse struct {
	Message string `json:"message"`
	Debug   string `json:"debug,omitempty"`
}

// VerifyOTPRequest represents a request to verify an OTP
type VerifyOTPRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

// OTPDispatch is the payload handed to the SMS channel
type OTPDispatch struct {
	Mobile    string    `json:"mobile"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
