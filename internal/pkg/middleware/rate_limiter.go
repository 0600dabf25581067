package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/grandhotel/hotelops/internal/pkg/constants"
	"github.com/grandhotel/hotelops/internal/pkg/logger"
	"github.com/grandhotel/hotelops/internal/utils"
)

// RateLimiterConfig contains configuration for the rate limiter
type RateLimiterConfig struct {
	RedisClient *redis.Client // nil selects the in-process limiter
	Resource    string        // Key segment naming the limited resource
	Limit       int           // Maximum number of requests
	Period      time.Duration // Time period for the limit
}

// RateLimiterMiddleware limits requests per client IP. With a Redis client the
// count is a fixed window shared by every instance; otherwise each process
// keeps its own token buckets.
func RateLimiterMiddleware(config RateLimiterConfig) echo.MiddlewareFunc {
	if config.Limit <= 0 || config.Period <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if config.RedisClient == nil {
		return localRateLimiter(config)
	}
	return redisRateLimiter(config)
}

func redisRateLimiter(config RateLimiterConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf(constants.KeyRateLimit, config.Resource, c.RealIP())
			ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
			defer cancel()

			var incr *redis.IntCmd
			var ttl *redis.DurationCmd
			_, err := config.RedisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				incr = pipe.Incr(ctx, key)
				ttl = pipe.TTL(ctx, key)
				return nil
			})
			if err != nil {
				// an unavailable limiter store must not lock users out
				logger.Warn("Rate limiter store unavailable", logger.Err(err))
				return next(c)
			}

			// a key without expiry starts a new window
			if ttl.Val() < 0 {
				if err := config.RedisClient.Expire(ctx, key, config.Period).Err(); err != nil {
					logger.Warn("Failed to set rate limit window", logger.Err(err))
				}
			}

			count := int(incr.Val())
			setRateLimitHeaders(c, config.Limit, config.Limit-count)

			if count > config.Limit {
				reset := ttl.Val()
				if reset < 0 {
					reset = config.Period
				}
				c.Response().Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(reset.Seconds()), 10))
				return utils.TooManyRequestsResponse(c, "Too many requests")
			}

			return next(c)
		}
	}
}

type ipLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (l *ipLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops visitors idle for longer than ttl
func (l *ipLimiters) sweep(now time.Time, ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.limiters {
		if now.Sub(v.lastSeen) > ttl {
			delete(l.limiters, ip)
		}
	}
}

func localRateLimiter(config RateLimiterConfig) echo.MiddlewareFunc {
	limiters := &ipLimiters{
		limit:    rate.Every(config.Period / time.Duration(config.Limit)),
		burst:    config.Limit,
		limiters: make(map[string]*visitor),
	}
	var requests int

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			limiter := limiters.get(c.RealIP(), now)

			limiters.mu.Lock()
			requests++
			doSweep := requests%1000 == 0
			limiters.mu.Unlock()
			if doSweep {
				limiters.sweep(now, 2*config.Period)
			}

			if !limiter.AllowN(now, 1) {
				setRateLimitHeaders(c, config.Limit, 0)
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(config.Period.Seconds()), 10))
				return utils.TooManyRequestsResponse(c, "Too many requests")
			}

			setRateLimitHeaders(c, config.Limit, int(limiter.TokensAt(now)))
			return next(c)
		}
	}
}

func setRateLimitHeaders(c echo.Context, limit, remaining int) {
	if remaining < 0 {
		remaining = 0
	}
	c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
}
