package middleware

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	jwtpkg "github.com/grandhotel/hotelops/internal/pkg/jwt"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/internal/utils"
)

// Echo context keys populated by TokenGuard
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeyMobile = "mobile"
	ContextKeyClaims = "claims"

	guardErrorKey = "token_guard_error"
)

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the session claims
func WithClaims(ctx context.Context, claims *jwtpkg.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims TokenGuard attached to the request context
func ClaimsFromContext(ctx context.Context) (*jwtpkg.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwtpkg.Claims)
	return claims, ok && claims != nil
}

// TokenGuard rejects requests without a valid bearer session token.
//
// A missing or non-Bearer Authorization header is answered with 401
// "Unauthorized - No token provided", any token that fails verification with
// 401 "Unauthorized - Invalid token", and a server without a signing secret
// with a bare 500.
func TokenGuard(cfg models.JWTConfig) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKeyClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := jwtpkg.ValidateToken(auth, cfg)
			if err != nil {
				c.Set(guardErrorKey, err)
				return nil, err
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(ContextKeyClaims).(*jwtpkg.Claims)
			if !ok {
				return
			}
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyRole, claims.Role)
			c.Set(ContextKeyMobile, claims.Mobile)
			c.SetRequest(c.Request().WithContext(WithClaims(c.Request().Context(), claims)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if parseErr, ok := c.Get(guardErrorKey).(error); ok {
				err = parseErr
			}
			switch {
			case errors.Is(err, apperrors.ErrConfiguration):
				logger.Error("Token guard misconfigured", logger.Err(err))
				return utils.InternalServerErrorResponse(c, "Internal Server Error")
			case errors.Is(err, apperrors.ErrInvalidToken):
				logger.Debug("Rejected session token",
					logger.String("path", c.Request().URL.Path),
					logger.Err(err))
				return utils.UnauthorizedResponse(c, "Unauthorized - Invalid token")
			default:
				return utils.UnauthorizedResponse(c, "Unauthorized - No token provided")
			}
		},
	})
}

// RequireRoles allows the request through only when the guarded session
// carries one of roles. It must run after TokenGuard.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromContext(c.Request().Context())
			if !ok {
				return utils.UnauthorizedResponse(c, "Unauthorized - No token provided")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return utils.ForbiddenResponse(c, "Forbidden")
			}
			return next(c)
		}
	}
}
