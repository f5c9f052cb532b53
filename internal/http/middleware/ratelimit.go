package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/internal/http/response"
	"github.com/you/shopauth/internal/ratelimit"
)

// RateLimit counts requests per client address under the limiter's policy.
// Store failures let the request through.
func RateLimit(limiter *ratelimit.Limiter, log logrus.FieldLogger) gin.HandlerFunc {
	policy := limiter.Policy()
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.WithError(err).WithField("policy", policy.Name).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(response.Seconds(decision.RetryAfter)))
			response.RateLimited(c, decision.RetryAfter)
			return
		}
		c.Next()
	}
}
