package rendergraphics

import (
	"context"
	"errors"
	"testing"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	requests []browser.Request
	out      []byte
	err      error
}

func (r *recordingRenderer) Render(_ context.Context, req browser.Request) ([]byte, error) {
	r.requests = append(r.requests, req)
	return r.out, r.err
}

func testCard() Card {
	return Card{
		Post: models.NewSocialPost(models.CategoryCaseStudy,
			"How we doubled lunch traffic in one month with a simple loyalty card.",
			[]string{"#growth", "#smallbiz"}),
		BusinessName: "Bistro 21",
		Theme:        "vibrant",
		Index:        2,
		Total:        3,
	}
}

func TestRenderQuoteCard(t *testing.T) {
	r := &recordingRenderer{out: []byte{0x89, 'P', 'N', 'G'}}
	svc := NewService(ServiceDependencies{Logger: logger.NewTestLogger(t)})

	buf, err := svc.RenderQuoteCard(context.Background(), r, testCard())
	require.NoError(t, err)
	assert.NotEmpty(t, buf)

	require.Len(t, r.requests, 1)
	req := r.requests[0]
	assert.Equal(t, browser.FormatPNG, req.Format)
	assert.Equal(t, CardWidth, req.Width)
	assert.Equal(t, CardHeight, req.Height)
	assert.Contains(t, req.HTML, "How we doubled lunch traffic")
	assert.Contains(t, req.HTML, "Bistro 21")
	assert.Contains(t, req.HTML, "#growth")
	assert.Contains(t, req.HTML, "case study")
	assert.Contains(t, req.HTML, "2 / 3")
	assert.Contains(t, req.HTML, ThemeFor("vibrant").Background)
}

func TestRenderQuoteCard_Errors(t *testing.T) {
	svc := NewService(ServiceDependencies{Logger: logger.NewNoOpLogger()})

	tests := []struct {
		name    string
		r       *recordingRenderer
		card    Card
		wantErr error
	}{
		{name: "renderer failure", r: &recordingRenderer{err: browser.ErrCapture}, card: testCard(), wantErr: ErrRenderFailed},
		{name: "empty image", r: &recordingRenderer{}, card: testCard(), wantErr: ErrRenderFailed},
		{name: "empty caption", r: &recordingRenderer{out: []byte("png")}, card: Card{BusinessName: "x"}, wantErr: ErrEmptyCaption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RenderQuoteCard(context.Background(), tt.r, tt.card)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
		})
	}

	_, err := svc.RenderQuoteCard(context.Background(), &recordingRenderer{err: browser.ErrCapture}, testCard())
	assert.ErrorIs(t, err, browser.ErrCapture)
}

func TestBuildHTML_EscapesUserText(t *testing.T) {
	card := testCard()
	card.BusinessName = `<script>alert("x")</script> & Sons`
	card.Post = models.NewSocialPost(models.CategoryTips, `Try our "new" <b>menu</b> & tell us what's good!`, []string{"#<img>"})

	html, err := BuildHTML(card)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>menu</b>")
	assert.NotContains(t, html, "#<img>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&amp; Sons")
	assert.Contains(t, html, "&lt;b&gt;menu&lt;/b&gt;")
	assert.Contains(t, html, "&quot;new&quot;")
}

func TestBuildHTML_OmitsIndexWhenUnset(t *testing.T) {
	card := testCard()
	card.Index, card.Total = 0, 0

	html, err := BuildHTML(card)
	require.NoError(t, err)
	assert.NotContains(t, html, `class="index"`)
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, "vibrant", ThemeFor(" Vibrant ").Name)
	assert.Equal(t, DefaultTheme, ThemeFor("").Name)
	assert.Equal(t, DefaultTheme, ThemeFor("neon").Name)
}

func TestCaptionFontSize(t *testing.T) {
	assert.Equal(t, 64, captionFontSize("short"))
	assert.Greater(t, captionFontSize(string(make([]rune, 100))), captionFontSize(string(make([]rune, 200))))
	assert.Equal(t, 38, captionFontSize(string(make([]rune, 300))))
}
