package generateposts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"demo-generator/internal/models"
)

var (
	postDelimiter   = regexp.MustCompile(`(?im)^[\s#*]*POST\s*\d+\s*:\**`)
	typeField       = regexp.MustCompile(`(?im)^\s*\**Type\**\s*:\s*\**\s*(.+)$`)
	contentField    = regexp.MustCompile(`(?is)\**Content\**\s*:\s*\**\s*(.*?)(?:\n\s*\**Hashtags\**\s*:|\z)`)
	hashtagsField   = regexp.MustCompile(`(?im)^\s*\**Hashtags\**\s*:\s*\**\s*(.+)$`)
	hashtagToken    = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	hashtagSplitter = regexp.MustCompile(`[\s,;]+`)
)

// ParsePosts splits a completion into posts. Blocks without content are dropped.
func ParsePosts(text string) []models.SocialPost {
	blocks := postDelimiter.Split(text, -1)
	if len(blocks) <= 1 {
		return nil
	}

	posts := make([]models.SocialPost, 0, len(blocks)-1)
	for _, block := range blocks[1:] {
		if post, ok := parseBlock(block); ok {
			posts = append(posts, post)
		}
	}
	return posts
}

func parseBlock(block string) (models.SocialPost, bool) {
	m := contentField.FindStringSubmatch(block)
	if m == nil {
		return models.SocialPost{}, false
	}
	caption := strings.TrimSpace(m[1])
	if caption == "" {
		return models.SocialPost{}, false
	}

	category := models.CategoryTips
	if t := typeField.FindStringSubmatch(block); t != nil {
		category = NormalizeCategory(t[1])
	}

	var hashtags []string
	if h := hashtagsField.FindStringSubmatch(block); h != nil {
		hashtags = parseHashtags(h[1])
	}

	return models.NewSocialPost(category, caption, hashtags), true
}

func parseHashtags(line string) []string {
	if tags := hashtagToken.FindAllString(line, -1); len(tags) > 0 {
		return tags
	}
	var tags []string
	for _, word := range hashtagSplitter.Split(line, -1) {
		word = strings.Trim(word, "#*. ")
		if word != "" {
			tags = append(tags, "#"+word)
		}
	}
	return tags
}

// NormalizeCategory maps a free-form type label onto a known category, defaulting to tips.
func NormalizeCategory(raw string) models.PostCategory {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "educat"):
		return models.CategoryEducational
	case strings.Contains(s, "motivat"), strings.Contains(s, "inspir"):
		return models.CategoryMotivational
	case strings.Contains(s, "case"), strings.Contains(s, "success"), strings.Contains(s, "stor"):
		return models.CategoryCaseStudy
	case strings.Contains(s, "news"), strings.Contains(s, "trend"), strings.Contains(s, "industry"):
		return models.CategoryIndustryNews
	case strings.Contains(s, "tip"), strings.Contains(s, "how"):
		return models.CategoryTips
	default:
		return models.CategoryTips
	}
}

// FallbackPost is the single post returned when nothing could be parsed.
func FallbackPost(in *Input) models.SocialPost {
	name := in.BusinessName
	if name == "" {
		name = "our " + strings.ToLower(in.BusinessType)
	}
	caption := fmt.Sprintf(
		"Welcome to %s! We are proud to serve %s with care and expertise in %s. Stay tuned for tips, stories and updates made just for you.",
		name, in.TargetAudience, strings.ToLower(in.Industry),
	)

	tags := []string{}
	for _, s := range []string{in.Industry, in.BusinessType, "Small Business"} {
		if tag := hashtagFrom(s); tag != "" && !contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return models.NewSocialPost(models.CategoryTips, caption, tags)
}

func hashtagFrom(s string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	if b.Len() == 0 {
		return ""
	}
	return "#" + b.String()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
