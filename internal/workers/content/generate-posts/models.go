package generateposts

import (
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
)

// PostsPerDemo is how many posts are requested and expected.
const PostsPerDemo = 7

// Caption length bounds accepted by ValidateContent.
const (
	MinCaptionLength = 50
	MaxCaptionLength = 280
)

type Input struct {
	BusinessName   string `json:"businessName,omitempty"`
	BusinessType   string `json:"businessType"`
	Industry       string `json:"industry"`
	TargetAudience string `json:"targetAudience"`
	BrandVoice     string `json:"brandVoice"`
}

type Output struct {
	Posts      []models.SocialPost `json:"posts"`
	Summary    string              `json:"summary"`
	TokensUsed int                 `json:"tokensUsed"`
	Model      string              `json:"model"`
	Fallback   bool                `json:"fallback"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
