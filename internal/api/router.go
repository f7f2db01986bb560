// Package api exposes the demo pipeline over HTTP.
package api

import (
	"time"

	apperrors "demo-generator/internal/common/errors"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/observability"
	"demo-generator/internal/common/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies wires the router. Generator is required; Limiter, DemoLog and
// Leads are optional.
type Dependencies struct {
	Logger         logger.Logger
	Generator      DemoGenerator
	DemoLog        DemoLogWriter
	Leads          LeadPublisher
	Status         StatusFunc
	Limiter        *ratelimit.Limiter
	Observability  *observability.Observability
	AllowedOrigins []string
	Version        string
}

// NewRouter builds the gin engine with request ids, CORS, JSON panic recovery
// and a per-client rate limit on the demo endpoints.
func NewRouter(deps Dependencies) *gin.Engine {
	log := logger.ForComponent(deps.Logger, "http")
	errs := apperrors.NewErrorHandler(log)

	h := &Handler{
		generator: deps.Generator,
		demoLog:   deps.DemoLog,
		leads:     deps.Leads,
		status:    deps.Status,
		obs:       deps.Observability,
		errs:      errs,
		logger:    log,
		version:   deps.Version,
		now:       time.Now,
	}

	r := gin.New()
	r.Use(errs.Recovery())
	r.Use(RequestID(log))
	r.Use(CORS(deps.AllowedOrigins))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	demos := r.Group("/api")
	if deps.Limiter != nil {
		demos.Use(RateLimit(deps.Limiter, errs))
	}
	demos.POST("/generate-demo", h.GenerateDemo)
	demos.POST("/test-demo", h.TestDemo)

	return r
}
