package usecase

import (
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/internal/utils"
	"github.com/grandhotel/hotelops/services/auth"
)

type AuthUC struct {
	authRepo auth.AuthRepo
	smsGW    auth.SMSGateway
	cfg      *models.Config

	now          func() time.Time
	generateCode func() (string, error)
}

// NewAuthUC creates a new auth usecase instance
func NewAuthUC(
	authRepo auth.AuthRepo,
	smsGW auth.SMSGateway,
	cfg *models.Config,
) *AuthUC {
	return &AuthUC{
		authRepo:     authRepo,
		smsGW:        smsGW,
		cfg:          cfg,
		now:          time.Now,
		generateCode: utils.GenerateOTP,
	}
}
