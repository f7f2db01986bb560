package rendergraphics

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/logger"

	"github.com/aymerick/raymond"
)

const TaskType = "render-graphics"

var (
	ErrTemplateFailed = errors.New("graphic template failed")
	ErrRenderFailed   = errors.New("graphic render failed")
	ErrEmptyCaption   = errors.New("post has no caption")
)

//go:embed templates/quote-card.hbs
var quoteCardSource string

var quoteCardTemplate = raymond.MustParse(quoteCardSource)

type Service struct {
	logger logger.Logger
}

func NewService(deps ServiceDependencies) *Service {
	return &Service{logger: logger.ForComponent(deps.Logger, TaskType)}
}

// RenderQuoteCard renders card as a square PNG on r.
func (s *Service) RenderQuoteCard(ctx context.Context, r browser.Renderer, card Card) ([]byte, error) {
	html, err := BuildHTML(card)
	if err != nil {
		return nil, err
	}

	buf, err := r.Render(ctx, browser.Request{
		HTML:   html,
		Format: browser.FormatPNG,
		Width:  CardWidth,
		Height: CardHeight,
		Scale:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrRenderFailed)
	}

	s.logger.Debug("Quote card rendered", map[string]interface{}{
		"index":    card.Index,
		"category": string(card.Post.Category),
		"bytes":    len(buf),
	})
	return buf, nil
}

// BuildHTML fills the quote card template. All card text is HTML-escaped.
func BuildHTML(card Card) (string, error) {
	if strings.TrimSpace(card.Post.Caption) == "" {
		return "", ErrEmptyCaption
	}

	ctx := map[string]interface{}{
		"width":        CardWidth,
		"height":       CardHeight,
		"theme":        ThemeFor(card.Theme).Context(),
		"category":     strings.ReplaceAll(string(card.Post.Category), "-", " "),
		"caption":      card.Post.Caption,
		"hashtags":     card.Post.Hashtags,
		"businessName": card.BusinessName,
		"fontSize":     captionFontSize(card.Post.Caption),
	}
	if card.Index > 0 && card.Total > 0 {
		ctx["index"] = card.Index
		ctx["total"] = card.Total
	}

	html, err := quoteCardTemplate.Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateFailed, err)
	}
	return html, nil
}

// captionFontSize shrinks the caption font as text grows so it fits the card.
func captionFontSize(caption string) int {
	switch n := utf8.RuneCountInString(caption); {
	case n <= 80:
		return 64
	case n <= 160:
		return 52
	case n <= 240:
		return 44
	default:
		return 38
	}
}
