package generateposts

import (
	"fmt"

	"demo-generator/internal/models"
)

// ValidateContent reports post-count, caption-length and hashtag problems.
// The report is advisory; callers decide whether issues matter.
func ValidateContent(posts []models.SocialPost) models.ContentReport {
	issues := []string{}

	switch {
	case len(posts) < PostsPerDemo:
		for i := len(posts) + 1; i <= PostsPerDemo; i++ {
			issues = append(issues, fmt.Sprintf("Post %d is missing (expected %d posts, got %d)", i, PostsPerDemo, len(posts)))
		}
	case len(posts) > PostsPerDemo:
		issues = append(issues, fmt.Sprintf("Expected %d posts, got %d", PostsPerDemo, len(posts)))
	}

	for i, post := range posts {
		n := i + 1
		switch {
		case post.CharacterCount < MinCaptionLength:
			issues = append(issues, fmt.Sprintf("Post %d is too short (%d characters, minimum %d)", n, post.CharacterCount, MinCaptionLength))
		case post.CharacterCount > MaxCaptionLength:
			issues = append(issues, fmt.Sprintf("Post %d is too long (%d characters, maximum %d)", n, post.CharacterCount, MaxCaptionLength))
		}
		if len(post.Hashtags) == 0 {
			issues = append(issues, fmt.Sprintf("Post %d has no hashtags", n))
		}
	}

	return models.ContentReport{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}
