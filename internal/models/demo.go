// internal/models/demo.go
package models

import (
	"strings"
	"time"
)

// DemoRequest is the business profile a demo is generated for.
type DemoRequest struct {
	BusinessName    string `json:"businessName"`
	Industry        string `json:"industry"`
	BusinessType    string `json:"businessType"`
	TargetAudience  string `json:"targetAudience"`
	BrandVoice      string `json:"brandVoice"`
	RecipientEmail  string `json:"recipientEmail"`
	RecipientName   string `json:"recipientName,omitempty"`
	ColorTheme      string `json:"colorTheme,omitempty"`
	IncludeGraphics *bool  `json:"includeGraphics,omitempty"`
	IncludePDF      *bool  `json:"includePdf,omitempty"`
	IncludeEmail    *bool  `json:"includeEmail,omitempty"`
}

// WantsGraphics is true unless the caller explicitly disabled graphics.
func (r DemoRequest) WantsGraphics() bool { return enabled(r.IncludeGraphics) }

// WantsPDF is true unless the caller explicitly disabled the report.
func (r DemoRequest) WantsPDF() bool { return enabled(r.IncludePDF) }

// WantsEmail is true unless the caller explicitly disabled delivery.
func (r DemoRequest) WantsEmail() bool { return enabled(r.IncludeEmail) }

// Normalized returns a copy with surrounding whitespace trimmed from every text field.
func (r DemoRequest) Normalized() DemoRequest {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.Industry = strings.TrimSpace(r.Industry)
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	r.BrandVoice = strings.TrimSpace(r.BrandVoice)
	r.RecipientEmail = strings.TrimSpace(r.RecipientEmail)
	r.RecipientName = strings.TrimSpace(r.RecipientName)
	r.ColorTheme = strings.TrimSpace(r.ColorTheme)
	return r
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// Bool returns a pointer to b, for building requests with explicit toggles.
func Bool(b bool) *bool {
	return &b
}

// DemoContent is everything the pipeline produced for one run.
type DemoContent struct {
	Posts    []SocialPost     `json:"posts"`
	Graphics [][]byte         `json:"-"`
	Insight  *IndustryInsight `json:"insight,omitempty"`
	PDF      []byte           `json:"-"`
}

// Costs is the estimated spend of a run.
type Costs struct {
	TokensUsed    int     `json:"tokensUsed"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// DemoResult is the aggregated outcome of one pipeline run.
// Success implies at least one post; failure implies at least one error.
type DemoResult struct {
	DemoID         string        `json:"demoId"`
	Success        bool          `json:"success"`
	StartedAt      time.Time     `json:"startedAt"`
	CompletedAt    time.Time     `json:"completedAt"`
	ProcessingTime time.Duration `json:"processingTime"`
	Content        *DemoContent  `json:"content,omitempty"`
	EmailSent      bool          `json:"emailSent"`
	MessageID      string        `json:"messageId,omitempty"`
	Errors         []string      `json:"errors"`
	Warnings       []string      `json:"warnings"`
	Costs          Costs         `json:"costs"`
}

// PostsCount returns the number of generated posts.
func (r *DemoResult) PostsCount() int {
	if r.Content == nil {
		return 0
	}
	return len(r.Content.Posts)
}

// GraphicsCount returns the number of rendered graphics.
func (r *DemoResult) GraphicsCount() int {
	if r.Content == nil {
		return 0
	}
	return len(r.Content.Graphics)
}

// HasInsight reports whether an insight was attached.
func (r *DemoResult) HasInsight() bool {
	return r.Content != nil && r.Content.Insight != nil
}

// HasPDF reports whether a report was rendered.
func (r *DemoResult) HasPDF() bool {
	return r.Content != nil && len(r.Content.PDF) > 0
}
