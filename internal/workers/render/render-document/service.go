package renderdocument

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/logger"
	rendergraphics "demo-generator/internal/workers/render/render-graphics"

	"github.com/aymerick/raymond"
)

const TaskType = "render-document"

var (
	ErrNoPosts        = errors.New("report has no posts")
	ErrTemplateFailed = errors.New("report template failed")
	ErrRenderFailed   = errors.New("report render failed")
)

var pdfMagic = []byte("%PDF")

//go:embed templates/report.hbs
var reportSource string

var reportTemplate = raymond.MustParse(reportSource)

type Service struct {
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{
		logger: logger.ForComponent(deps.Logger, TaskType),
		now:    time.Now,
	}
}

// RenderReport renders the report as a Letter-size PDF on r.
func (s *Service) RenderReport(ctx context.Context, r browser.Renderer, report Report) ([]byte, error) {
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = s.now()
	}

	html, err := BuildHTML(report)
	if err != nil {
		return nil, err
	}

	paper := browser.LetterPaper
	buf, err := r.Render(ctx, browser.Request{
		HTML:   html,
		Format: browser.FormatPDF,
		Paper:  &paper,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrRenderFailed)
	}
	if !bytes.HasPrefix(buf, pdfMagic) {
		s.logger.Warn("Rendered document lacks PDF header", map[string]interface{}{"bytes": len(buf)})
	}

	s.logger.Info("Report rendered", map[string]interface{}{
		"posts":      len(report.Posts),
		"hasInsight": report.Insight != nil,
		"bytes":      len(buf),
	})
	return buf, nil
}

// BuildHTML fills the report template. All report text is HTML-escaped.
func BuildHTML(report Report) (string, error) {
	if len(report.Posts) == 0 {
		return "", ErrNoPosts
	}

	posts := make([]map[string]interface{}, 0, len(report.Posts))
	for i, p := range report.Posts {
		posts = append(posts, map[string]interface{}{
			"day":            i + 1,
			"category":       strings.ReplaceAll(string(p.Category), "-", " "),
			"caption":        p.Caption,
			"tags":           strings.Join(p.Hashtags, " "),
			"characterCount": p.CharacterCount,
		})
	}

	ctx := map[string]interface{}{
		"businessName":   report.BusinessName,
		"industry":       report.Industry,
		"businessType":   report.BusinessType,
		"targetAudience": report.TargetAudience,
		"posts":          posts,
		"theme":          rendergraphics.ThemeFor(report.Theme).Context(),
		"generatedAt":    report.GeneratedAt.UTC().Format("January 2, 2006 15:04 MST"),
	}
	if in := report.Insight; in != nil {
		ctx["insight"] = map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"metric":      in.Metric,
			"source":      in.Source,
		}
	}

	html, err := reportTemplate.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateFailed, err)
	}
	return html, nil
}
