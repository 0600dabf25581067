package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/services/auth"
)

// OTPReaper periodically deletes expired one-time codes
type OTPReaper struct {
	cron     *cron.Cron
	uc       auth.AuthUC
	schedule string
	timeout  time.Duration
	running  atomic.Bool
}

// NewOTPReaper schedules uc.PurgeExpiredOTPs on a standard cron spec or
// descriptor such as "@every 1h"
func NewOTPReaper(uc auth.AuthUC, schedule string) (*OTPReaper, error) {
	r := &OTPReaper{
		cron:     cron.New(),
		uc:       uc,
		schedule: schedule,
		timeout:  time.Minute,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return r, nil
}

func (r *OTPReaper) Start() {
	logger.Info("OTP reaper started", logger.String("schedule", r.schedule))
	r.cron.Start()
}

// Stop waits for a running purge to finish
func (r *OTPReaper) Stop() {
	<-r.cron.Stop().Done()
	logger.Info("OTP reaper stopped")
}

// RunOnce performs a single purge outside the schedule
func (r *OTPReaper) RunOnce(ctx context.Context) (int64, error) {
	return r.uc.PurgeExpiredOTPs(ctx)
}

func (r *OTPReaper) run() {
	if !r.running.CompareAndSwap(false, true) {
		logger.Warn("OTP purge skipped: previous run still in progress")
		return
	}
	defer r.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if _, err := r.RunOnce(ctx); err != nil {
		logger.Error("OTP purge failed",
			logger.Err(err),
			logger.Duration("duration", time.Since(start)))
	}
}
