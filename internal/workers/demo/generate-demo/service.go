package generatedemo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"demo-generator/internal/common/config"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/metrics"
	"demo-generator/internal/models"
	emailsend "demo-generator/internal/workers/communication/email-send"
	generateposts "demo-generator/internal/workers/content/generate-posts"
	renderdocument "demo-generator/internal/workers/render/render-document"
	rendergraphics "demo-generator/internal/workers/render/render-graphics"

	"github.com/google/uuid"
)

const TaskType = "generate-demo"

// Run outcomes reported to metrics.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

var (
	ErrContentNotConfigured = errors.New("content generator not configured")
	ErrRendererUnavailable  = errors.New("renderer not configured")
	ErrNoPosts              = errors.New("Content generation returned no posts")
)

type Service struct {
	config    *Config
	content   ContentGenerator
	insights  InsightProvider
	graphics  GraphicsRenderer
	documents DocumentRenderer
	notifier  Notifier
	newPool   PoolFactory
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		config:    cfg,
		content:   deps.Content,
		insights:  deps.Insights,
		graphics:  deps.Graphics,
		documents: deps.Documents,
		notifier:  deps.Notifier,
		newPool:   deps.NewPool,
		logger:    logger.ForComponent(deps.Logger, TaskType),
		now:       time.Now,
	}
}

// GenerateDemo runs the pipeline for req. Only validation and content generation can
// fail the run; every later stage degrades into warnings. The run's render pool is
// always closed before returning.
func (s *Service) GenerateDemo(ctx context.Context, req models.DemoRequest) *models.DemoResult {
	started := s.now()
	result := &models.DemoResult{
		DemoID:    NewDemoID(started),
		StartedAt: started,
		Errors:    []string{},
		Warnings:  []string{},
	}
	log := s.logger.WithFields(map[string]interface{}{"demoId": result.DemoID})

	req = req.Normalized()
	if problems := ValidateRequest(req); len(problems) > 0 {
		log.Warn("Demo request rejected", map[string]interface{}{"problems": problems})
		result.Errors = append(result.Errors, problems...)
		return s.finish(result, OutcomeInvalid)
	}

	log.Info("Starting demo generation", map[string]interface{}{
		"businessName": req.BusinessName,
		"industry":     req.Industry,
		"graphics":     req.WantsGraphics(),
		"pdf":          req.WantsPDF(),
		"email":        req.WantsEmail(),
	})

	session := &renderSession{factory: s.newPool, logger: log}
	defer session.Close()

	content, err := s.generateContent(ctx, req)
	if err != nil {
		log.Error("Content generation failed", map[string]interface{}{"error": err.Error()})
		result.Errors = append(result.Errors, err.Error())
		return s.finish(result, OutcomeFailed)
	}
	result.Content = &models.DemoContent{Posts: content.Value.Posts}
	result.Costs.TokensUsed = content.Value.TokensUsed
	result.Warnings = append(result.Warnings, content.Warnings...)

	insight := s.fetchInsight(ctx, req)
	result.Content.Insight = insight.Value
	result.Warnings = append(result.Warnings, insight.Warnings...)

	if req.WantsGraphics() {
		graphics := s.renderGraphics(ctx, session, req, result.Content.Posts)
		result.Content.Graphics = graphics.Value
		result.Warnings = append(result.Warnings, graphics.Warnings...)
	}

	if req.WantsPDF() {
		pdf := s.renderPDF(ctx, session, req, result.Content)
		result.Content.PDF = pdf.Value
		result.Warnings = append(result.Warnings, pdf.Warnings...)
	}

	if req.WantsEmail() && req.RecipientEmail != "" {
		email := s.sendEmail(ctx, req, result)
		if email.Value != nil {
			result.EmailSent = true
			result.MessageID = email.Value.MessageID
		}
		result.Warnings = append(result.Warnings, email.Warnings...)
	}

	result.Costs.EstimatedCost = EstimateCost(s.config, result.Costs.TokensUsed, result.EmailSent, result.GraphicsCount())
	s.finish(result, OutcomeSuccess)

	log.Info("Demo generated", map[string]interface{}{
		"posts":          result.PostsCount(),
		"graphics":       result.GraphicsCount(),
		"hasPdf":         result.HasPDF(),
		"emailSent":      result.EmailSent,
		"warnings":       len(result.Warnings),
		"estimatedCost":  result.Costs.EstimatedCost,
		"processingTime": result.ProcessingTime.Milliseconds(),
	})
	return result
}

func (s *Service) finish(result *models.DemoResult, outcome string) *models.DemoResult {
	result.CompletedAt = s.now()
	result.ProcessingTime = result.CompletedAt.Sub(result.StartedAt)
	result.Success = outcome == OutcomeSuccess

	metrics.DemoRunsTotal.WithLabelValues(outcome).Inc()
	if result.Success {
		metrics.DemoEstimatedCost.Observe(result.Costs.EstimatedCost)
	}
	return result
}

func (s *Service) stageContext(ctx context.Context, stage string) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.Timeout(stage))
}

func (s *Service) generateContent(ctx context.Context, req models.DemoRequest) (StageResult[*generateposts.Output], error) {
	var res StageResult[*generateposts.Output]
	if s.content == nil {
		return res, ErrContentNotConfigured
	}

	started := time.Now()
	stageCtx, cancel := s.stageContext(ctx, config.StageContent)
	defer cancel()

	out, err := s.content.GeneratePosts(stageCtx, &generateposts.Input{
		BusinessName:   req.BusinessName,
		BusinessType:   req.BusinessType,
		Industry:       req.Industry,
		TargetAudience: req.TargetAudience,
		BrandVoice:     req.BrandVoice,
	})
	if err != nil {
		metrics.ObserveStage(config.StageContent, started, 0)
		return res, err
	}
	if out == nil || len(out.Posts) == 0 {
		metrics.ObserveStage(config.StageContent, started, 0)
		return res, ErrNoPosts
	}

	res.Value = out
	if report := generateposts.ValidateContent(out.Posts); !report.Valid {
		for _, issue := range report.Issues {
			res.Warn("Content quality: %s", issue)
		}
	}
	metrics.ObserveStage(config.StageContent, started, len(res.Warnings))
	return res, nil
}

func (s *Service) fetchInsight(ctx context.Context, req models.DemoRequest) StageResult[*models.IndustryInsight] {
	var res StageResult[*models.IndustryInsight]
	started := time.Now()
	defer func() { metrics.ObserveStage(config.StageInsight, started, len(res.Warnings)) }()

	if s.insights == nil {
		res.Warn("Industry insight unavailable: provider not configured")
		return res
	}

	stageCtx, cancel := s.stageContext(ctx, config.StageInsight)
	defer cancel()

	insight, err := s.insights.GetInsight(stageCtx, req.Industry, "")
	if err != nil {
		res.Warn("Industry insight unavailable: %v", err)
		return res
	}
	if insight == nil || !insight.Usable() {
		res.Warn("Industry insight discarded: not sourced or below confidence threshold")
		return res
	}
	res.Value = insight
	return res
}

func (s *Service) renderGraphics(ctx context.Context, session *renderSession, req models.DemoRequest, posts []models.SocialPost) StageResult[[][]byte] {
	var res StageResult[[][]byte]
	started := time.Now()
	defer func() { metrics.ObserveStage(config.StageGraphics, started, len(res.Warnings)) }()

	count := min(len(posts), s.config.MaxGraphics)
	if count == 0 {
		return res
	}
	if s.graphics == nil {
		res.Warn("Graphics generation failed: %v", ErrRendererUnavailable)
		return res
	}
	pool, err := session.Pool()
	if err != nil {
		res.Warn("Graphics generation failed: %v", err)
		return res
	}

	stageCtx, cancel := s.stageContext(ctx, config.StageGraphics)
	defer cancel()

	if err := pool.Init(stageCtx, s.config.PoolSize); err != nil {
		res.Warn("Graphics generation failed: %v", err)
		return res
	}

	theme := s.theme(req)
	images := make([][]byte, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			images[i], errs[i] = s.graphics.RenderQuoteCard(stageCtx, pool, rendergraphics.Card{
				Post:         posts[i],
				BusinessName: req.BusinessName,
				Theme:        theme,
				Index:        i + 1,
				Total:        count,
			})
		}(i)
	}
	wg.Wait()

	for i := range images {
		if errs[i] != nil {
			res.Warn("Graphic %d failed: %v", i+1, errs[i])
			continue
		}
		res.Value = append(res.Value, images[i])
	}
	return res
}

func (s *Service) renderPDF(ctx context.Context, session *renderSession, req models.DemoRequest, content *models.DemoContent) StageResult[[]byte] {
	var res StageResult[[]byte]
	started := time.Now()
	defer func() { metrics.ObserveStage(config.StagePDF, started, len(res.Warnings)) }()

	if s.documents == nil {
		res.Warn("PDF generation failed: %v", ErrRendererUnavailable)
		return res
	}
	pool, err := session.Pool()
	if err != nil {
		res.Warn("PDF generation failed: %v", err)
		return res
	}

	stageCtx, cancel := s.stageContext(ctx, config.StagePDF)
	defer cancel()

	pdf, err := s.documents.RenderReport(stageCtx, pool, renderdocument.Report{
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		BusinessType:   req.BusinessType,
		TargetAudience: req.TargetAudience,
		Posts:          content.Posts,
		Insight:        content.Insight,
		Theme:          s.theme(req),
		GeneratedAt:    s.now(),
	})
	if err != nil {
		res.Warn("PDF generation failed: %v", err)
		return res
	}
	res.Value = pdf
	return res
}

func (s *Service) sendEmail(ctx context.Context, req models.DemoRequest, result *models.DemoResult) StageResult[*emailsend.Output] {
	var res StageResult[*emailsend.Output]
	started := time.Now()
	defer func() { metrics.ObserveStage(config.StageEmail, started, len(res.Warnings)) }()

	if s.notifier == nil {
		res.Warn("Email delivery failed: %v", emailsend.ErrEmailNotConfigured)
		return res
	}

	stageCtx, cancel := s.stageContext(ctx, config.StageEmail)
	defer cancel()

	out, err := s.notifier.SendDemoEmail(stageCtx, emailsend.DemoEmail{
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		PostsCount:     result.PostsCount(),
		GraphicsCount:  result.GraphicsCount(),
		PDFAttachment:  result.Content.PDF,
	})
	if err != nil {
		res.Warn("Email delivery failed: %v", err)
		return res
	}
	res.Value = out
	return res
}

func (s *Service) theme(req models.DemoRequest) string {
	if req.ColorTheme != "" {
		return req.ColorTheme
	}
	return s.config.DefaultTheme
}

// EstimateCost prices a run for display, rounded to cents.
func EstimateCost(cfg *Config, tokens int, emailSent bool, graphics int) float64 {
	cost := float64(tokens) / 1000 * cfg.TokenRatePer1K
	if emailSent {
		cost += cfg.EmailFlatCost
	}
	cost += float64(graphics) * cfg.PerGraphicCost
	return math.Round(cost*100) / 100
}

// NewDemoID returns demo_<unix millis>_<8 hex chars>. Collisions are possible, just unlikely.
func NewDemoID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("demo_%d_%s", at.UnixMilli(), suffix)
}

// renderSession owns the pool of one run. The pool is created on first use and
// closed exactly once by Close.
type renderSession struct {
	factory PoolFactory
	pool    RenderPool
	logger  logger.Logger
}

func (r *renderSession) Pool() (RenderPool, error) {
	if r.pool != nil {
		return r.pool, nil
	}
	if r.factory == nil {
		return nil, ErrRendererUnavailable
	}
	r.pool = r.factory()
	if r.pool == nil {
		return nil, ErrRendererUnavailable
	}
	return r.pool, nil
}

func (r *renderSession) Close() {
	if r.pool == nil {
		return
	}
	if err := r.pool.Close(); err != nil {
		r.logger.Warn("Failed to close render pool", map[string]interface{}{"error": err.Error()})
	}
}
