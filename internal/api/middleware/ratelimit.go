package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/api/metrics"
	"github.com/identitykit/identity-api/internal/infrastructure/db/redis"
)

// Limiter abstracts the Redis fixed-window counter.
type Limiter interface {
	Allow(ctx context.Context, key string) (redis.RateResult, error)
}

// RateLimit throttles a route per client IP. Limiter backend failures fail
// open: losing Redis should degrade to no throttling, not to a login outage.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Path() + ":" + c.RealIP()

			res, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("path", c.Path()).Msg("rate limit check failed, allowing request")
				return next(c)
			}

			if !res.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				retry := int(res.RetryAfter.Seconds())
				if retry < 1 {
					retry = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}

			return next(c)
		}
	}
}
