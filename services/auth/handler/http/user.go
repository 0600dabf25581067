package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandhotel/hotelops/internal/pkg/apperrors"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/pkg/middleware"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/internal/utils"
	"github.com/grandhotel/hotelops/services/auth"
)

// UserHandler handles account requests behind the token guard
type UserHandler struct {
	authUC auth.AuthUC
}

// NewUserHandler creates a new user handler
func NewUserHandler(authUC auth.AuthUC) *UserHandler {
	return &UserHandler{
		authUC: authUC,
	}
}

// Me handles GET /auth/me
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c.Request().Context())
	if !ok {
		return utils.UnauthorizedResponse(c, "Unauthorized - No token provided")
	}

	profile, err := h.authUC.GetProfile(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		logger.Error("Failed to get profile",
			logger.Err(err),
			logger.String("user_id", claims.UserID),
		)
		return utils.InternalServerErrorResponse(c, "Failed to fetch user")
	}

	return utils.JSONResponse(c, http.StatusOK, models.MeResponse{User: *profile})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter := models.UserFilter{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
	}

	users, err := h.authUC.ListUsers(c.Request().Context(), filter)
	if err != nil {
		logger.Error("Failed to list users", logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to fetch users")
	}

	return utils.JSONResponse(c, http.StatusOK, users)
}
