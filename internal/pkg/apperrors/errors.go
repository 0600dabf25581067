package apperrors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCode        = errors.New("invalid otp")
	ErrExpiredCode        = errors.New("otp has expired")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrConfiguration      = errors.New("configuration error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("rate limit exceeded")

	// ErrAlreadyRedeemed is returned by storage when a conditional redeem loses
	ErrAlreadyRedeemed = errors.New("otp already redeemed")
)

// ValidationError carries a client-facing message for a rejected input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidation builds a ValidationError with the given message
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// ValidationMessage extracts the client message of a ValidationError
func ValidationMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	return "", false
}
