package renderdocument

import (
	"time"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
)

// Report is the content of the demo PDF.
type Report struct {
	BusinessName   string
	Industry       string
	BusinessType   string
	TargetAudience string
	Posts          []models.SocialPost
	Insight        *models.IndustryInsight
	Theme          string
	GeneratedAt    time.Time
}

type ServiceDependencies struct {
	Logger logger.Logger
}
