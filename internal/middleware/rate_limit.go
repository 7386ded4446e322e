package middleware

import (
	"log"
	"net/http"
	"time"

	"rentalcv/internal/caching"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles requests per client IP using the shared
// Redis-backed counter. Cache outages fail open.
type RateLimitMiddleware struct {
	cacheSvc caching.CacheService
}

func NewRateLimitMiddleware(cacheSvc caching.CacheService) *RateLimitMiddleware {
	return &RateLimitMiddleware{cacheSvc: cacheSvc}
}

// Limit allows at most maxRequests per window for the given route group.
func (m *RateLimitMiddleware) Limit(group string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := "http:" + group + ":" + c.RealIP()

			limited, err := m.cacheSvc.IsRateLimited(ctx, key, maxRequests, window)
			if err != nil {
				log.Printf("WARN: rate-limit check failed for %s: %v", key, err)
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}

			if err := m.cacheSvc.IncrementRateLimit(ctx, key, window); err != nil {
				log.Printf("WARN: rate-limit increment failed for %s: %v", key, err)
			}
			return next(c)
		}
	}
}
