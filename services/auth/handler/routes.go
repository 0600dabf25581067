package handler

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/grandhotel/hotelops/internal/pkg/middleware"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	"github.com/grandhotel/hotelops/services/auth/handler/http"
)

// Handler coordinates the HTTP handlers of the auth service
type Handler struct {
	authHandler *http.AuthHandler
	userHandler *http.UserHandler
	cfg         *models.Config
	redisClient *redis.Client
}

// NewHandler creates and initializes all handlers. redisClient may be nil,
// in which case rate limiting is kept per process.
func NewHandler(
	authHandler *http.AuthHandler,
	userHandler *http.UserHandler,
	cfg *models.Config,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		authHandler: authHandler,
		userHandler: userHandler,
		cfg:         cfg,
		redisClient: redisClient,
	}
}

// RegisterRoutes registers the public auth endpoints and the guarded
// account endpoints
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	limiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RedisClient: h.redisClient,
		Resource:    "auth",
		Limit:       h.cfg.RateLimit.Requests,
		Period:      h.cfg.RateLimit.Period,
	})

	// Public routes
	authGroup := e.Group("/auth")
	authGroup.POST("/send-otp", h.authHandler.SendOTP, limiter)
	authGroup.POST("/verify-otp", h.authHandler.VerifyOTP, limiter)
	authGroup.POST("/login", h.authHandler.Login, limiter)

	// Guarded routes
	guard := middleware.TokenGuard(h.cfg.JWT)
	authGroup.GET("/me", h.userHandler.Me, guard)

	userGroup := e.Group("/users", guard)
	userGroup.GET("", h.userHandler.ListUsers, middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
}
