// internal/models/content.go
package models

import (
	"strings"
	"unicode/utf8"
)

// PostCategory classifies a generated social post.
type PostCategory string

const (
	CategoryEducational  PostCategory = "educational"
	CategoryMotivational PostCategory = "motivational"
	CategoryCaseStudy    PostCategory = "case-study"
	CategoryTips         PostCategory = "tips"
	CategoryIndustryNews PostCategory = "industry-news"
)

// AllCategories lists every category in prompt order.
var AllCategories = []PostCategory{
	CategoryEducational,
	CategoryMotivational,
	CategoryCaseStudy,
	CategoryTips,
	CategoryIndustryNews,
}

// SocialPost is one generated post. CharacterCount is fixed at construction.
type SocialPost struct {
	Category       PostCategory `json:"category"`
	Caption        string       `json:"caption"`
	Hashtags       []string     `json:"hashtags"`
	CharacterCount int          `json:"characterCount"`
}

// NewSocialPost trims the caption and records its length in characters.
func NewSocialPost(category PostCategory, caption string, hashtags []string) SocialPost {
	caption = strings.TrimSpace(caption)
	if hashtags == nil {
		hashtags = []string{}
	}
	return SocialPost{
		Category:       category,
		Caption:        caption,
		Hashtags:       hashtags,
		CharacterCount: utf8.RuneCountInString(caption),
	}
}

// ContentReport is the advisory outcome of checking a post set.
type ContentReport struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}
