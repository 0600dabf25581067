package gateway

import (
	"fmt"

	"github.com/grandhotel/hotelops/internal/pkg/circuitbreaker"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	natspkg "github.com/grandhotel/hotelops/internal/pkg/nats"
	"github.com/grandhotel/hotelops/services/auth"
)

// NewSMSGateway returns the gateway selected by SMS_DRIVER. The NATS client
// is only required for the nats driver, whose dispatches go through a
// circuit breaker.
func NewSMSGateway(cfg *models.Config, client *natspkg.Client) (auth.SMSGateway, error) {
	switch cfg.SMS.Driver {
	case models.SMSDriverLog, "":
		return NewLogSMSGateway(cfg.OTP.ExposeDebug), nil
	case models.SMSDriverNATS:
		if client == nil {
			return nil, fmt.Errorf("sms driver %q requires a NATS connection", cfg.SMS.Driver)
		}
		breaker := circuitbreaker.New(circuitbreaker.DefaultConfig("sms-nats"))
		return NewBreakerSMSGateway(NewNATSSMSGateway(client, cfg.SMS.Subject), breaker), nil
	default:
		return nil, fmt.Errorf("unknown sms driver %q", cfg.SMS.Driver)
	}
}
