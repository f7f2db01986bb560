package api

import (
	"strconv"
	"strings"
	"time"

	apperrors "demo-generator/internal/common/errors"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/metrics"
	"demo-generator/internal/common/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or assigns one, echoes it back
// and logs the finished request.
func RequestID(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)

		start := time.Now()
		c.Next()

		log.Info("Request handled", map[string]interface{}{
			"requestId": rid,
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIp":  c.ClientIP(),
		})
	}
}

// CORS allows the configured origins. A "*" entry, or no entry at all, allows every origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	cfg.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RateLimit rejects clients, keyed by IP, that exceed limiter's budget.
func RateLimit(limiter *ratelimit.Limiter, errs *apperrors.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := limiter.Reserve(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		metrics.RateLimitRejections.WithLabelValues(c.FullPath()).Inc()
		c.Header("Retry-After", strconv.Itoa(int(wait.Seconds()+0.999)))
		errs.Respond(c, apperrors.NewRateLimitedError(wait))
	}
}
