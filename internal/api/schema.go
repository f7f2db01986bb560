package api

import "demo-generator/internal/common/validation"

// demoRequestSchema checks JSON types only. Required fields and length caps are
// enforced by the pipeline so every problem is reported together.
var demoRequestSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"businessName":    validation.StringProp("Business name", 0),
		"industry":        validation.StringProp("Industry", 0),
		"businessType":    validation.StringProp("Kind of business", 0),
		"targetAudience":  validation.StringProp("Who the posts are for", 0),
		"brandVoice":      validation.StringProp("Tone of the posts", 0),
		"recipientEmail":  validation.StringProp("Where to send the demo", 0),
		"recipientName":   validation.StringProp("Greeting name", 0),
		"colorTheme":      validation.StringProp("Graphics theme", 0),
		"includeGraphics": validation.BoolProp("Render quote cards"),
		"includePdf":      validation.BoolProp("Render the PDF report"),
		"includeEmail":    validation.BoolProp("Email the demo"),
	},
}
