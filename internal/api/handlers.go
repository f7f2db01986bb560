package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "demo-generator/internal/common/errors"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/observability"
	"demo-generator/internal/common/validation"
	"demo-generator/internal/models"
	demolog "demo-generator/internal/workers/data-access/demo-log"

	"github.com/gin-gonic/gin"
)

// Route names used for metrics and logs.
const (
	RouteGenerateDemo = "generate-demo"
	RouteTestDemo     = "test-demo"
)

const followUpTimeout = 5 * time.Second

var errNoResult = errors.New("demo pipeline returned no result")

type DemoGenerator interface {
	GenerateDemo(ctx context.Context, req models.DemoRequest) *models.DemoResult
}

type DemoLogWriter interface {
	Insert(ctx context.Context, e demolog.Entry) error
}

type LeadPublisher interface {
	Publish(ctx context.Context, req models.DemoRequest, result *models.DemoResult) (string, error)
}

// StatusFunc reports dependency availability for /health.
type StatusFunc func(ctx context.Context) ServiceStatus

// Defaults for fields missing from a test-demo request.
var testDemoDefaults = models.DemoRequest{
	BusinessName:   "Test Restaurant",
	Industry:       "restaurant",
	BusinessType:   "local restaurant",
	TargetAudience: "local diners and families",
	BrandVoice:     "friendly and welcoming",
	RecipientEmail: "test@example.com",
	RecipientName:  "Test User",
}

type Handler struct {
	generator DemoGenerator
	demoLog   DemoLogWriter
	leads     LeadPublisher
	status    StatusFunc
	obs       *observability.Observability
	errs      *apperrors.ErrorHandler
	logger    logger.Logger
	version   string
	now       func() time.Time
}

// Health answers 200 in both states; "degraded" means no dependency is configured.
func (h *Handler) Health(c *gin.Context) {
	var services ServiceStatus
	if h.status != nil {
		services = h.status(c.Request.Context())
	}
	status := "healthy"
	if services.Degraded() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Services:  services,
		Timestamp: h.now().UTC(),
		Version:   h.version,
	})
}

// GenerateDemo runs the pipeline for a DemoRequest body.
func (h *Handler) GenerateDemo(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.errs.Respond(c, apperrors.NewValidationError([]string{"Request body could not be read"}))
		return
	}
	req, ok := h.decode(c, raw)
	if !ok {
		return
	}
	h.run(c, RouteGenerateDemo, req)
}

// TestDemo fills missing fields with a sample restaurant and never sends email.
func (h *Handler) TestDemo(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.errs.Respond(c, apperrors.NewValidationError([]string{"Request body could not be read"}))
		return
	}
	var req models.DemoRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		var ok bool
		if req, ok = h.decode(c, raw); !ok {
			return
		}
	}
	h.run(c, RouteTestDemo, withTestDefaults(req))
}

func (h *Handler) decode(c *gin.Context, raw []byte) (models.DemoRequest, bool) {
	var req models.DemoRequest

	check, err := validation.ValidateDocument(raw, demoRequestSchema)
	if err != nil {
		h.errs.Respond(c, apperrors.NewValidationError([]string{"Request body must be valid JSON"}))
		return req, false
	}
	if !check.Valid {
		h.errs.Respond(c, apperrors.NewValidationError(check.GetErrorMessages()))
		return req, false
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		h.errs.Respond(c, apperrors.NewValidationError([]string{"Request body must be a JSON object"}))
		return req, false
	}
	return req, true
}

func (h *Handler) run(c *gin.Context, route string, req models.DemoRequest) {
	ctx := c.Request.Context()
	result := h.generator.GenerateDemo(ctx, req)
	if result == nil {
		h.errs.Respond(c, apperrors.NewInternalError(errNoResult))
		return
	}

	status := "success"
	if !result.Success {
		status = "failed"
	}
	h.obs.RecordDemoProcessed(ctx, route, status)
	h.obs.RecordDemoDuration(ctx, result.ProcessingTime, status)

	if !result.Success {
		h.logger.Warn("Demo generation failed", map[string]interface{}{
			"route":     route,
			"demoId":    result.DemoID,
			"errors":    result.Errors,
			"requestId": c.GetString(requestIDKey),
		})
		c.JSON(http.StatusBadRequest, newFailureResponse(result))
		return
	}

	if req.WantsEmail() {
		h.obs.RecordEmail(ctx, result.EmailSent)
	}
	h.followUp(ctx, req.Normalized(), result)

	c.JSON(http.StatusOK, newDemoResponse(result))
}

// followUp logs the run and announces the lead. Failures are logged only.
func (h *Handler) followUp(ctx context.Context, req models.DemoRequest, result *models.DemoResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), followUpTimeout)
	defer cancel()

	if h.demoLog != nil {
		if err := h.demoLog.Insert(ctx, demolog.EntryFrom(req, result)); err != nil {
			h.logger.Warn("Failed to record demo log", map[string]interface{}{
				"demoId": result.DemoID,
				"error":  err.Error(),
			})
		}
	}
	if h.leads != nil {
		if _, err := h.leads.Publish(ctx, req, result); err != nil {
			h.logger.Warn("Failed to publish lead alert", map[string]interface{}{
				"demoId": result.DemoID,
				"error":  err.Error(),
			})
		}
	}
}

func withTestDefaults(req models.DemoRequest) models.DemoRequest {
	req = req.Normalized()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&req.BusinessName, testDemoDefaults.BusinessName)
	fill(&req.Industry, testDemoDefaults.Industry)
	fill(&req.BusinessType, testDemoDefaults.BusinessType)
	fill(&req.TargetAudience, testDemoDefaults.TargetAudience)
	fill(&req.BrandVoice, testDemoDefaults.BrandVoice)
	fill(&req.RecipientEmail, testDemoDefaults.RecipientEmail)
	fill(&req.RecipientName, testDemoDefaults.RecipientName)
	req.IncludeEmail = models.Bool(false)
	return req
}
