package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/models"
)

// ReplaceOTP deletes every code issued to the mobile and stores otp in its
// place, so only the latest code can ever be redeemed
func (r *AuthRepo) ReplaceOTP(ctx context.Context, otp *models.OTP) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM otp_verifications WHERE mobile = $1`, otp.Mobile); err != nil {
		return fmt.Errorf("failed to delete previous otp: %w", err)
	}

	query := `
		INSERT INTO otp_verifications (mobile, otp, is_verified, expires_at)
		VALUES ($1, $2, FALSE, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowxContext(ctx, query, otp.Mobile, otp.Code, otp.ExpiresAt).Scan(&otp.ID, &otp.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert otp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	otp.IsVerified = false
	return nil
}

// GetActiveOTP returns the most recent unverified record for mobile and code.
// Expired records are returned too; expiry is the caller's decision.
func (r *AuthRepo) GetActiveOTP(ctx context.Context, mobile, code string) (*models.OTP, error) {
	query := `
		SELECT id, mobile, otp, is_verified, expires_at, created_at
		FROM otp_verifications
		WHERE mobile = $1 AND otp = $2 AND is_verified = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp models.OTP
	if err := r.db.GetContext(ctx, &otp, query, mobile, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("otp: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}

	return &otp, nil
}

// RedeemOTP marks the code verified and gets or creates the customer account
// for mobile in one transaction. The update only matches an unverified row,
// so of two concurrent redemptions exactly one succeeds; the other gets
// apperrors.ErrAlreadyRedeemed. The bool reports whether the account was created.
func (r *AuthRepo) RedeemOTP(ctx context.Context, otpID, mobile string) (*models.User, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE otp_verifications SET is_verified = TRUE WHERE id = $1 AND is_verified = FALSE`,
		otpID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark otp verified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark otp verified: %w", err)
	}
	if affected == 0 {
		return nil, false, apperrors.ErrAlreadyRedeemed
	}

	insert := `
		INSERT INTO users (mobile, role, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (mobile) WHERE mobile IS NOT NULL DO NOTHING
	`
	res, err = tx.ExecContext(ctx, insert, mobile, models.RoleCustomer)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	created, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	var user models.User
	if err := tx.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile); err != nil {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &user, created == 1, nil
}

// PurgeOTPs deletes records that expired before the given instant
func (r *AuthRepo) PurgeOTPs(ctx context.Context, expiredBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otp_verifications WHERE expires_at < $1`, expiredBefore)
	if err != nil {
		return 0, fmt.Errorf("failed to purge otp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge otp: %w", err)
	}
	return n, nil
}
