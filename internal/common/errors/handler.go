package errors

import (
	"demo-generator/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes StandardErrors as JSON responses in the API's failure shape.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond normalizes err, logs it and aborts the request with the mapped status.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	message := stdErr.Message
	if stdErr.Code == ErrCodeInternal {
		message = "Internal server error"
	}

	errs := []string{message}
	if problems, ok := stdErr.Metadata["problems"].([]string); ok && len(problems) > 0 {
		errs = problems
	}

	c.AbortWithStatusJSON(status, failureBody(errs))
}

// Recovery converts panics into the 500 response shape.
func (h *ErrorHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.Error("Recovered from panic", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		})
		c.AbortWithStatusJSON(500, failureBody([]string{"Internal server error"}))
	})
}

// failureBody is the rejection shape. Costs are always zero.
func failureBody(errs []string) gin.H {
	return gin.H{
		"success":  false,
		"errors":   errs,
		"warnings": []string{},
		"costs":    models.Costs{},
	}
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Request failed", map[string]interface{}{
		"path":          c.Request.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"requestId":     c.GetString("request_id"),
	})
}
