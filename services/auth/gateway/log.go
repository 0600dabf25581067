package gateway

import (
	"context"
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/utils"
)

// LogSMSGateway writes dispatches to the application log instead of a carrier
type LogSMSGateway struct {
	exposeCode bool
}

func NewLogSMSGateway(exposeCode bool) *LogSMSGateway {
	return &LogSMSGateway{exposeCode: exposeCode}
}

func (g *LogSMSGateway) SendOTP(ctx context.Context, mobile, code string, expiresAt time.Time) error {
	fields := []logger.Field{
		logger.String("mobile", utils.MaskPhoneNumber(mobile)),
		logger.Time("expires_at", expiresAt),
	}
	if g.exposeCode {
		fields = append(fields, logger.String("otp_code", code))
	}
	logger.Info("SMS dispatched", fields...)
	return nil
}
