package rendergraphics

import (
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
)

// Square social graphic size in CSS pixels.
const (
	CardWidth  = 1080
	CardHeight = 1080
)

// Card is one quote graphic. Index and Total are 1-based and optional.
type Card struct {
	Post         models.SocialPost
	BusinessName string
	Theme        string
	Index        int
	Total        int
}

type ServiceDependencies struct {
	Logger logger.Logger
}
