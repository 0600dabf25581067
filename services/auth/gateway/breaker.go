package gateway

import (
	"context"
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/circuitbreaker"
	"github.com/grandhotel/hotelops/services/auth"
)

// BreakerSMSGateway fails fast with circuitbreaker.ErrOpen while the wrapped
// gateway keeps failing
type BreakerSMSGateway struct {
	next    auth.SMSGateway
	breaker *circuitbreaker.CircuitBreaker
}

func NewBreakerSMSGateway(next auth.SMSGateway, breaker *circuitbreaker.CircuitBreaker) *BreakerSMSGateway {
	return &BreakerSMSGateway{next: next, breaker: breaker}
}

func (g *BreakerSMSGateway) SendOTP(ctx context.Context, mobile, code string, expiresAt time.Time) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.SendOTP(ctx, mobile, code, expiresAt)
	})
}
