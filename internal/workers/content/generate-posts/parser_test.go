package generateposts

import (
	"testing"

	"demo-generator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosts(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
		check     func(t *testing.T, posts []models.SocialPost)
	}{
		{
			name:      "seven well formed posts",
			text:      sevenPostCompletion(),
			wantCount: 7,
		},
		{
			name: "markdown emphasis and lowercase delimiter",
			text: "Here you go!\n\n**post 1:**\n**Type:** Motivational\n**Content:** Every small step counts when you are building something that matters to your town.\n**Hashtags:** #smallbiz #community\n",
			wantCount: 1,
			check: func(t *testing.T, posts []models.SocialPost) {
				assert.Equal(t, models.CategoryMotivational, posts[0].Category)
				assert.Equal(t, "Every small step counts when you are building something that matters to your town.", posts[0].Caption)
				assert.Equal(t, []string{"#smallbiz", "#community"}, posts[0].Hashtags)
			},
		},
		{
			name:      "block without content is dropped",
			text:      "POST 1:\nType: Tips\n\nPOST 2:\nType: Tips\nContent: Keep your menu short so guests can decide quickly and the kitchen stays fast.\nHashtags: #tips\n",
			wantCount: 1,
		},
		{
			name:      "missing type defaults to tips",
			text:      "POST 1:\nContent: A quick reminder that we are open late on Fridays for the whole neighbourhood.\nHashtags: #latenight",
			wantCount: 1,
			check: func(t *testing.T, posts []models.SocialPost) {
				assert.Equal(t, models.CategoryTips, posts[0].Category)
			},
		},
		{
			name:      "hashtags without hash signs",
			text:      "POST 1:\nType: Educational\nContent: Olive oil quality varies a lot, and here is how to tell a good bottle from a bad one.\nHashtags: cooking, oliveoil, kitchen",
			wantCount: 1,
			check: func(t *testing.T, posts []models.SocialPost) {
				assert.Equal(t, []string{"#cooking", "#oliveoil", "#kitchen"}, posts[0].Hashtags)
			},
		},
		{
			name:      "post number inside caption is not a boundary",
			text:      "POST 1:\nType: Tips\nContent: Read our latest blog post 3: five ways to brighten your weekend brunch menu.\nHashtags: #brunch #tips\n\nPOST 2:\nType: Tips\nContent: Ask your regulars which dish they miss most and bring it back for a week.\nHashtags: #regulars",
			wantCount: 2,
			check: func(t *testing.T, posts []models.SocialPost) {
				assert.Equal(t, "Read our latest blog post 3: five ways to brighten your weekend brunch menu.", posts[0].Caption)
				assert.Equal(t, []string{"#brunch", "#tips"}, posts[0].Hashtags)
				assert.Equal(t, []string{"#regulars"}, posts[1].Hashtags)
			},
		},
		{
			name:      "markdown heading delimiter",
			text:      "### POST 1:\nType: Educational\nContent: Seasonal produce tastes better and costs less, so plan the menu around the market.\nHashtags: #seasonal",
			wantCount: 1,
		},
		{
			name:      "no delimiter",
			text:      "I can't produce that right now.",
			wantCount: 0,
		},
		{
			name:      "empty",
			text:      "",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := ParsePosts(tt.text)
			require.Len(t, posts, tt.wantCount)
			for _, p := range posts {
				assert.Equal(t, len([]rune(p.Caption)), p.CharacterCount)
				assert.NotNil(t, p.Hashtags)
			}
			if tt.check != nil {
				tt.check(t, posts)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want models.PostCategory
	}{
		{"Educational", models.CategoryEducational},
		{"educate", models.CategoryEducational},
		{"Motivational", models.CategoryMotivational},
		{"Inspirational quote", models.CategoryMotivational},
		{"Case Study", models.CategoryCaseStudy},
		{"customer success", models.CategoryCaseStudy},
		{"Industry News", models.CategoryIndustryNews},
		{"trend watch", models.CategoryIndustryNews},
		{"Quick tip", models.CategoryTips},
		{"How-to", models.CategoryTips},
		{"behind the scenes", models.CategoryTips},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.raw))
		})
	}
}

func TestFallbackPost(t *testing.T) {
	post := FallbackPost(&Input{
		BusinessType:   "Yoga Studio",
		Industry:       "fitness",
		TargetAudience: "busy professionals",
	})

	assert.Equal(t, models.CategoryTips, post.Category)
	assert.Contains(t, post.Caption, "our yoga studio")
	assert.Contains(t, post.Caption, "busy professionals")
	assert.Equal(t, []string{"#Fitness", "#YogaStudio", "#SmallBusiness"}, post.Hashtags)
	assert.GreaterOrEqual(t, post.CharacterCount, MinCaptionLength)
	assert.LessOrEqual(t, post.CharacterCount, MaxCaptionLength)
}
