package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"locallink/internal/infrastructure/ratelimit"
	"locallink/pkg/errors"
	"locallink/pkg/logger"
	"locallink/pkg/response"
)

type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimit throttles requests per client IP.
func RateLimit(limiter Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			ok, wait := limiter.Allow(ip, ratelimit.ActionRequest)
			if !ok {
				logger.Warn("RATE LIMIT: Blocked request from IP %s (retry in %v)", ip, wait)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}
			return next(c)
		}
	}
}
