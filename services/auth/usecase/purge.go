package usecase

import (
	"context"
	"fmt"

	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/metrics"
)

// PurgeExpiredOTPs deletes codes that expired more than OTP_RETENTION ago
func (u *AuthUC) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	cutoff := u.now().Add(-u.cfg.OTP.Retention)

	n, err := u.authRepo.PurgeOTPs(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired otp: %w", err)
	}

	metrics.OTPPurgedTotal.Add(float64(n))
	logger.Info("Purged expired OTPs",
		logger.Int64("deleted", n),
		logger.Time("cutoff", cutoff))

	return n, nil
}
