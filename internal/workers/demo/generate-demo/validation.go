package generatedemo

import (
	"strings"

	"demo-generator/internal/common/validation"
	"demo-generator/internal/models"
)

// Field length caps of a DemoRequest.
const (
	MaxBusinessNameLength   = 100
	MaxIndustryLength       = 50
	MaxBusinessTypeLength   = 100
	MaxTargetAudienceLength = 200
	MaxBrandVoiceLength     = 100
	MaxEmailLength          = 254
	MaxRecipientNameLength  = 100
	MaxColorThemeLength     = 30
)

// ValidateRequest returns every problem with req, in field order.
func ValidateRequest(req models.DemoRequest) []string {
	var problems []string
	problems = validation.RequiredText(problems, "businessName", req.BusinessName, MaxBusinessNameLength)
	problems = validation.RequiredText(problems, "industry", req.Industry, MaxIndustryLength)
	problems = validation.RequiredText(problems, "businessType", req.BusinessType, MaxBusinessTypeLength)
	problems = validation.RequiredText(problems, "targetAudience", req.TargetAudience, MaxTargetAudienceLength)
	problems = validation.RequiredText(problems, "brandVoice", req.BrandVoice, MaxBrandVoiceLength)
	problems = validation.RequiredText(problems, "recipientEmail", req.RecipientEmail, MaxEmailLength)

	email := strings.TrimSpace(req.RecipientEmail)
	if req.WantsEmail() && email != "" && !validation.ValidateEmail(email) {
		problems = append(problems, "recipientEmail must be a valid email address")
	}

	problems = validation.OptionalText(problems, "recipientName", req.RecipientName, MaxRecipientNameLength)
	problems = validation.OptionalText(problems, "colorTheme", req.ColorTheme, MaxColorThemeLength)
	return problems
}
