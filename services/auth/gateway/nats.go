package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/constants"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	natspkg "github.com/grandhotel/hotelops/internal/pkg/nats"
)

// NATSSMSGateway hands codes to an SMS worker over NATS
type NATSSMSGateway struct {
	client  *natspkg.Client
	subject string
}

// NewNATSSMSGateway creates a gateway publishing to subject, or to
// constants.SubjectSMSOTPRequested when subject is empty
func NewNATSSMSGateway(client *natspkg.Client, subject string) *NATSSMSGateway {
	if subject == "" {
		subject = constants.SubjectSMSOTPRequested
	}
	return &NATSSMSGateway{
		client:  client,
		subject: subject,
	}
}

// SendOTP publishes an OTPDispatch event
func (g *NATSSMSGateway) SendOTP(ctx context.Context, mobile, code string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := models.OTPDispatch{
		Mobile:    mobile,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	if err := g.client.PublishJSON(g.subject, event); err != nil {
		return fmt.Errorf("failed to publish otp dispatch: %w", err)
	}
	return nil
}
