package generatedemo

import (
	"context"
	"fmt"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
	emailsend "demo-generator/internal/workers/communication/email-send"
	generateposts "demo-generator/internal/workers/content/generate-posts"
	renderdocument "demo-generator/internal/workers/render/render-document"
	rendergraphics "demo-generator/internal/workers/render/render-graphics"
)

type ContentGenerator interface {
	GeneratePosts(ctx context.Context, input *generateposts.Input) (*generateposts.Output, error)
}

type InsightProvider interface {
	GetInsight(ctx context.Context, industry, insightType string) (*models.IndustryInsight, error)
}

type GraphicsRenderer interface {
	RenderQuoteCard(ctx context.Context, r browser.Renderer, card rendergraphics.Card) ([]byte, error)
}

type DocumentRenderer interface {
	RenderReport(ctx context.Context, r browser.Renderer, report renderdocument.Report) ([]byte, error)
}

type Notifier interface {
	SendDemoEmail(ctx context.Context, email emailsend.DemoEmail) (*emailsend.Output, error)
}

// RenderPool is the per-run set of browsers. *browser.Pool satisfies it.
type RenderPool interface {
	browser.Renderer
	Init(ctx context.Context, size int) error
	Close() error
}

// PoolFactory creates a fresh, uninitialized pool for one run.
type PoolFactory func() RenderPool

// StageResult is the outcome of a best-effort stage: a value, possibly zero,
// plus the warnings explaining what degraded.
type StageResult[T any] struct {
	Value    T
	Warnings []string
}

func (r *StageResult[T]) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ServiceDependencies wires the pipeline. Content is required; a nil optional
// collaborator turns its stage into a warning.
type ServiceDependencies struct {
	Logger    logger.Logger
	Content   ContentGenerator
	Insights  InsightProvider
	Graphics  GraphicsRenderer
	Documents DocumentRenderer
	Notifier  Notifier
	NewPool   PoolFactory
}
