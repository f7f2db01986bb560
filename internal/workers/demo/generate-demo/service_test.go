package generatedemo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/config"
	apperrors "demo-generator/internal/common/errors"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
	emailsend "demo-generator/internal/workers/communication/email-send"
	generateposts "demo-generator/internal/workers/content/generate-posts"
	renderdocument "demo-generator/internal/workers/render/render-document"
	rendergraphics "demo-generator/internal/workers/render/render-graphics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeContent struct {
	out   *generateposts.Output
	err   error
	calls int
	input *generateposts.Input
}

func (f *fakeContent) GeneratePosts(_ context.Context, input *generateposts.Input) (*generateposts.Output, error) {
	f.calls++
	f.input = input
	return f.out, f.err
}

type fakeInsights struct {
	getInsight func(ctx context.Context, industry, insightType string) (*models.IndustryInsight, error)
}

func (f *fakeInsights) GetInsight(ctx context.Context, industry, insightType string) (*models.IndustryInsight, error) {
	return f.getInsight(ctx, industry, insightType)
}

// fakeGraphics renders through the pool so tests can see which renderer was used.
type fakeGraphics struct {
	mu    sync.Mutex
	fail  map[int]error
	cards []rendergraphics.Card
}

func (f *fakeGraphics) RenderQuoteCard(ctx context.Context, r browser.Renderer, card rendergraphics.Card) ([]byte, error) {
	f.mu.Lock()
	f.cards = append(f.cards, card)
	err := f.fail[card.Index]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, browser.Request{HTML: fmt.Sprintf("card-%d", card.Index), Format: browser.FormatPNG})
}

type fakeDocuments struct {
	err    error
	report *renderdocument.Report
}

func (f *fakeDocuments) RenderReport(ctx context.Context, r browser.Renderer, report renderdocument.Report) ([]byte, error) {
	f.report = &report
	if f.err != nil {
		return nil, f.err
	}
	return r.Render(ctx, browser.Request{HTML: "report", Format: browser.FormatPDF})
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendDemoEmail(ctx context.Context, email emailsend.DemoEmail) (*emailsend.Output, error) {
	args := m.Called(ctx, email)
	out, _ := args.Get(0).(*emailsend.Output)
	return out, args.Error(1)
}

// fakePool echoes the request HTML back as the rendered bytes.
type fakePool struct {
	mu       sync.Mutex
	initErr  error
	initSize int
	inits    int
	renders  int
	closes   int
}

func (p *fakePool) Init(_ context.Context, size int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
	p.initSize = size
	return p.initErr
}

func (p *fakePool) Render(_ context.Context, req browser.Request) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renders++
	return []byte(req.HTML), nil
}

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

type harness struct {
	content   *fakeContent
	insights  *fakeInsights
	graphics  *fakeGraphics
	documents *fakeDocuments
	notifier  *MockNotifier
	pool      *fakePool
	pools     int
	svc       *Service
}

func goodPosts(n int) []models.SocialPost {
	posts := make([]models.SocialPost, n)
	for i := range posts {
		caption := fmt.Sprintf("Post %d: fresh seasonal menu ideas that keep regulars coming back every single week.", i+1)
		posts[i] = models.NewSocialPost(models.AllCategories[i%len(models.AllCategories)], caption, []string{"#Local", "#Food"})
	}
	return posts
}

func usableInsight() *models.IndustryInsight {
	return &models.IndustryInsight{
		ID:          "fb-restaurant-1",
		Industry:    "restaurant",
		InsightType: models.InsightStatistic,
		Title:       "Diners check social media first",
		Description: "Most diners look at photos before choosing a restaurant.",
		Metric:      "72%",
		Source:      "National Restaurant Association",
		Confidence:  0.9,
	}
}

func newHarness(t *testing.T, cfg *Config) *harness {
	h := &harness{
		content: &fakeContent{out: &generateposts.Output{Posts: goodPosts(7), TokensUsed: 2200}},
		insights: &fakeInsights{getInsight: func(context.Context, string, string) (*models.IndustryInsight, error) {
			return usableInsight(), nil
		}},
		graphics:  &fakeGraphics{},
		documents: &fakeDocuments{},
		notifier:  new(MockNotifier),
		pool:      &fakePool{},
	}
	h.svc = NewService(ServiceDependencies{
		Logger:    logger.NewTestLogger(t),
		Content:   h.content,
		Insights:  h.insights,
		Graphics:  h.graphics,
		Documents: h.documents,
		Notifier:  h.notifier,
		NewPool: func() RenderPool {
			h.pools++
			return h.pool
		},
	}, cfg)
	return h
}

func validRequest() models.DemoRequest {
	return models.DemoRequest{
		BusinessName:   "Test Restaurant",
		Industry:       "restaurant",
		BusinessType:   "local restaurant",
		TargetAudience: "local diners and families",
		BrandVoice:     "friendly and welcoming",
		RecipientEmail: "test@example.com",
		RecipientName:  "Sam",
	}
}

var demoIDPattern = regexp.MustCompile(`^demo_\d+_[0-9a-f]{8}$`)

func TestGenerateDemo_AllStagesSucceed(t *testing.T) {
	h := newHarness(t, nil)
	var sent emailsend.DemoEmail
	h.notifier.On("SendDemoEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(emailsend.DemoEmail) }).
		Return(&emailsend.Output{Success: true, MessageID: "msg-1"}, nil).Once()

	result := h.svc.GenerateDemo(context.Background(), validRequest())

	require.True(t, result.Success, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Regexp(t, demoIDPattern, result.DemoID)
	assert.False(t, result.CompletedAt.Before(result.StartedAt))

	require.NotNil(t, result.Content)
	assert.Len(t, result.Content.Posts, 7)
	assert.Equal(t, [][]byte{[]byte("card-1"), []byte("card-2"), []byte("card-3")}, result.Content.Graphics)
	assert.Equal(t, []byte("report"), result.Content.PDF)
	assert.Equal(t, "fb-restaurant-1", result.Content.Insight.ID)

	assert.True(t, result.EmailSent)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, 2200, result.Costs.TokensUsed)
	assert.InDelta(t, 0.08, result.Costs.EstimatedCost, 1e-9)

	assert.Equal(t, 1, h.pools)
	assert.Equal(t, 1, h.pool.inits)
	assert.Equal(t, browser.DefaultPoolSize, h.pool.initSize)
	assert.Equal(t, 4, h.pool.renders)
	assert.Equal(t, 1, h.pool.closes)

	assert.Equal(t, "local restaurant", h.content.input.BusinessType)
	require.NotNil(t, h.documents.report)
	assert.Equal(t, "professional", h.documents.report.Theme)
	assert.Equal(t, "fb-restaurant-1", h.documents.report.Insight.ID)

	assert.Equal(t, "test@example.com", sent.RecipientEmail)
	assert.Equal(t, 7, sent.PostsCount)
	assert.Equal(t, 3, sent.GraphicsCount)
	assert.Equal(t, []byte("report"), sent.PDFAttachment)
	h.notifier.AssertExpectations(t)
}

func TestGenerateDemo_ValidationFailure(t *testing.T) {
	h := newHarness(t, nil)

	result := h.svc.GenerateDemo(context.Background(), models.DemoRequest{BusinessName: "  "})

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 6)
	assert.Contains(t, result.Errors, "businessName is required")
	assert.Contains(t, result.Errors, "recipientEmail is required")
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Content)
	assert.Zero(t, result.Costs)
	assert.Zero(t, h.content.calls)
	assert.Zero(t, h.pools)
}

func TestGenerateDemo_ContentFailureIsFatal(t *testing.T) {
	h := newHarness(t, nil)
	h.content.out = nil
	h.content.err = apperrors.NewConfigurationError(generateposts.ErrAPIKeyNotConfigured.Error())

	result := h.svc.GenerateDemo(context.Background(), validRequest())

	assert.False(t, result.Success)
	assert.Equal(t, []string{"OpenAI API key not configured"}, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Content)
	assert.False(t, result.EmailSent)
	assert.Zero(t, result.Costs.EstimatedCost)
	assert.Zero(t, h.pools)
	h.notifier.AssertNotCalled(t, "SendDemoEmail", mock.Anything, mock.Anything)
}

func TestGenerateDemo_EmptyContentIsFatal(t *testing.T) {
	h := newHarness(t, nil)
	h.content.out = &generateposts.Output{}

	result := h.svc.GenerateDemo(context.Background(), validRequest())

	assert.False(t, result.Success)
	assert.Equal(t, []string{ErrNoPosts.Error()}, result.Errors)
}

func TestGenerateDemo_OptionalStageFailuresAreWarnings(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(h *harness)
		warning  string
		check    func(t *testing.T, h *harness, r *models.DemoResult)
		emailOut *emailsend.Output
		emailErr error
	}{
		{
			name: "insight error",
			setup: func(h *harness) {
				h.insights.getInsight = func(context.Context, string, string) (*models.IndustryInsight, error) {
					return nil, errors.New("no insight available for industry")
				}
			},
			warning: "Industry insight unavailable: no insight available for industry",
			check: func(t *testing.T, h *harness, r *models.DemoResult) {
				assert.False(t, r.HasInsight())
				require.NotNil(t, h.documents.report)
				assert.Nil(t, h.documents.report.Insight)
			},
		},
		{
			name: "unusable insight",
			setup: func(h *harness) {
				h.insights.getInsight = func(context.Context, string, string) (*models.IndustryInsight, error) {
					in := usableInsight()
					in.Source = ""
					return in, nil
				}
			},
			warning: "Industry insight discarded",
			check: func(t *testing.T, _ *harness, r *models.DemoResult) {
				assert.False(t, r.HasInsight())
			},
		},
		{
			name:    "pool init failure",
			setup:   func(h *harness) { h.pool.initErr = browser.ErrBrowserLaunch },
			warning: "Graphics generation failed: failed to launch browser",
			check: func(t *testing.T, h *harness, r *models.DemoResult) {
				assert.Zero(t, r.GraphicsCount())
				assert.Empty(t, h.graphics.cards)
				assert.True(t, r.HasPDF())
				assert.Equal(t, 1, h.pool.closes)
			},
		},
		{
			name:    "one graphic fails",
			setup:   func(h *harness) { h.graphics.fail = map[int]error{2: errors.New("capture timed out")} },
			warning: "Graphic 2 failed: capture timed out",
			check: func(t *testing.T, h *harness, r *models.DemoResult) {
				assert.Equal(t, [][]byte{[]byte("card-1"), []byte("card-3")}, r.Content.Graphics)
				assert.Equal(t, 1, len(h.graphics.cards)-r.GraphicsCount())
			},
		},
		{
			name:    "pdf failure",
			setup:   func(h *harness) { h.documents.err = errors.New("print failed") },
			warning: "PDF generation failed: print failed",
			check: func(t *testing.T, h *harness, r *models.DemoResult) {
				assert.False(t, r.HasPDF())
				assert.Equal(t, 3, r.GraphicsCount())
			},
		},
		{
			name:     "email failure",
			emailErr: errors.New("Failed to send email: 401"),
			warning:  "Email delivery failed: Failed to send email: 401",
			check: func(t *testing.T, _ *harness, r *models.DemoResult) {
				assert.False(t, r.EmailSent)
				assert.Empty(t, r.MessageID)
				assert.InDelta(t, 0.08, r.Costs.EstimatedCost, 1e-9)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			if tt.setup != nil {
				tt.setup(h)
			}
			out := tt.emailOut
			if out == nil && tt.emailErr == nil {
				out = &emailsend.Output{Success: true, MessageID: "msg-1"}
			}
			h.notifier.On("SendDemoEmail", mock.Anything, mock.Anything).Return(out, tt.emailErr)

			result := h.svc.GenerateDemo(context.Background(), validRequest())

			require.True(t, result.Success)
			assert.Empty(t, result.Errors)
			require.Len(t, result.Warnings, 1)
			assert.Contains(t, result.Warnings[0], tt.warning)
			assert.Len(t, result.Content.Posts, 7)
			tt.check(t, h, result)
		})
	}
}

func TestGenerateDemo_OptionalStagesSkipped(t *testing.T) {
	h := newHarness(t, nil)
	req := validRequest()
	req.IncludeGraphics = models.Bool(false)
	req.IncludePDF = models.Bool(false)
	req.IncludeEmail = models.Bool(false)
	req.RecipientEmail = "not-an-email"

	result := h.svc.GenerateDemo(context.Background(), req)

	require.True(t, result.Success, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Zero(t, h.pools)
	assert.False(t, result.EmailSent)
	assert.Zero(t, result.GraphicsCount())
	assert.False(t, result.HasPDF())
	assert.InDelta(t, 0.07, result.Costs.EstimatedCost, 1e-9)
	h.notifier.AssertNotCalled(t, "SendDemoEmail", mock.Anything, mock.Anything)
}

func TestGenerateDemo_PDFWithoutGraphicsCreatesPoolLazily(t *testing.T) {
	h := newHarness(t, nil)
	req := validRequest()
	req.IncludeGraphics = models.Bool(false)
	req.IncludeEmail = models.Bool(false)
	req.ColorTheme = "vibrant"

	result := h.svc.GenerateDemo(context.Background(), req)

	require.True(t, result.Success)
	assert.True(t, result.HasPDF())
	assert.Equal(t, 1, h.pools)
	assert.Zero(t, h.pool.inits)
	assert.Equal(t, 1, h.pool.closes)
	assert.Equal(t, "vibrant", h.documents.report.Theme)
}

func TestGenerateDemo_FewerPostsThanGraphics(t *testing.T) {
	h := newHarness(t, nil)
	h.content.out = &generateposts.Output{Posts: goodPosts(2), TokensUsed: 400}
	req := validRequest()
	req.IncludePDF = models.Bool(false)
	req.IncludeEmail = models.Bool(false)

	result := h.svc.GenerateDemo(context.Background(), req)

	require.True(t, result.Success)
	assert.Equal(t, 2, result.GraphicsCount())
	require.NotEmpty(t, result.Warnings)
	for _, w := range result.Warnings {
		assert.True(t, strings.HasPrefix(w, "Content quality: "), w)
	}
	for _, card := range h.graphics.cards {
		assert.Equal(t, 2, card.Total)
	}
}

func TestGenerateDemo_MissingRendererIsWarning(t *testing.T) {
	h := newHarness(t, nil)
	h.svc.newPool = nil
	req := validRequest()
	req.IncludeEmail = models.Bool(false)

	result := h.svc.GenerateDemo(context.Background(), req)

	require.True(t, result.Success)
	assert.Equal(t, []string{
		"Graphics generation failed: renderer not configured",
		"PDF generation failed: renderer not configured",
	}, result.Warnings)
}

func TestGenerateDemo_StageTimeoutBecomesWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StageTimeouts[config.StageInsight] = 20 * time.Millisecond
	h := newHarness(t, cfg)
	h.insights.getInsight = func(ctx context.Context, _, _ string) (*models.IndustryInsight, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	req := validRequest()
	req.IncludeGraphics = models.Bool(false)
	req.IncludePDF = models.Bool(false)
	req.IncludeEmail = models.Bool(false)

	result := h.svc.GenerateDemo(context.Background(), req)

	require.True(t, result.Success)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], context.DeadlineExceeded.Error())
}

func TestEstimateCost(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name      string
		tokens    int
		emailSent bool
		graphics  int
		want      float64
	}{
		{name: "nothing", want: 0},
		{name: "tokens only", tokens: 1000, want: 0.03},
		{name: "everything", tokens: 1000, emailSent: true, graphics: 3, want: 0.05},
		{name: "large run", tokens: 10000, emailSent: true, graphics: 3, want: 0.32},
		{name: "graphics only", graphics: 4, want: 0.02},
		{name: "email only", emailSent: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateCost(cfg, tt.tokens, tt.emailSent, tt.graphics), 1e-9)
		})
	}
}

func TestNewDemoID(t *testing.T) {
	at := time.UnixMilli(1767225600000)
	a, b := NewDemoID(at), NewDemoID(at)
	assert.Regexp(t, demoIDPattern, a)
	assert.True(t, strings.HasPrefix(a, "demo_1767225600000_"))
	assert.NotEqual(t, a, b)
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		Demo:     config.DemoConfig{TokenRatePer1K: 0.01, EmailFlatCost: 0.002, PerGraphicCost: 0.01, MaxGraphics: 2, DefaultTheme: "warm"},
		Renderer: config.RendererConfig{PoolSize: 5},
		Stages:   map[string]config.StageConfig{config.StagePDF: {Timeout: 1500}},
	}

	c := ConfigFrom(cfg)
	assert.Equal(t, 0.01, c.TokenRatePer1K)
	assert.Equal(t, 2, c.MaxGraphics)
	assert.Equal(t, 5, c.PoolSize)
	assert.Equal(t, "warm", c.DefaultTheme)
	assert.Equal(t, 1500*time.Millisecond, c.Timeout(config.StagePDF))
	assert.Equal(t, 60*time.Second, c.Timeout(config.StageContent))
	assert.NoError(t, c.Validate())

	c.PoolSize = 0
	assert.Error(t, c.Validate())
}
