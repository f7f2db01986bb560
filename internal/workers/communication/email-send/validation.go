package emailsend

import (
	"demo-generator/internal/common/validation"
)

const (
	maxRecipientEmail = 254
	maxRecipientName  = 100
)

func validateDemoEmail(email DemoEmail) []string {
	problems := validation.RequiredText(nil, "recipientEmail", email.RecipientEmail, maxRecipientEmail)
	if len(problems) == 0 && !validation.ValidateEmail(email.RecipientEmail) {
		problems = append(problems, "recipientEmail must be a valid email address")
	}
	problems = validation.OptionalText(problems, "recipientName", email.RecipientName, maxRecipientName)
	return validation.RequiredText(problems, "businessName", email.BusinessName, 100)
}
