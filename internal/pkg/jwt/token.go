package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/models"
)

// Claims represents standard JWT claims plus custom fields
type Claims struct {
	UserID string `json:"user_id"`
	Mobile string `json:"mobile,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given account.
// An empty secret is a ConfigurationError.
func GenerateToken(userID, mobile, role string, cfg models.JWTConfig) (string, int64, error) {
	if cfg.Secret == "" {
		return "", 0, fmt.Errorf("%w: jwt secret is not set", apperrors.ErrConfiguration)
	}

	now := time.Now()
	expirationTime := now.Add(time.Duration(cfg.Expiration) * time.Minute)

	claims := Claims{
		UserID: userID,
		Mobile: mobile,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expirationTime.Unix(), nil
}

// ValidateToken verifies signature, algorithm and expiry and returns the claims.
// Every rejection wraps apperrors.ErrInvalidToken.
func ValidateToken(tokenString string, cfg models.JWTConfig) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: jwt secret is not set", apperrors.ErrConfiguration)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", apperrors.ErrInvalidToken)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", apperrors.ErrInvalidToken)
	}

	return claims, nil
}
