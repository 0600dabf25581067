package auth

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/grandhotel/hotelops/services/auth SMSGateway

// SMSGateway delivers one-time codes to a mobile number
type SMSGateway interface {
	SendOTP(ctx context.Context, mobile, code string, expiresAt time.Time) error
}
