package generateposts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "demo-generator/internal/common/errors"
	apphttp "demo-generator/internal/common/http"
	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"

	openai "github.com/sashabaranov/go-openai"
)

const TaskType = "generate-posts"

var (
	ErrAPIKeyNotConfigured = errors.New("OpenAI API key not configured")
	ErrGenerationFailed    = errors.New("content generation failed")
	ErrGenerationTimeout   = errors.New("content generation timed out")
)

// ChatCompleter is the part of the OpenAI client the service calls.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Service struct {
	config *Config
	client ChatCompleter
	logger logger.Logger
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	s := &Service{
		config: cfg,
		logger: logger.ForComponent(deps.Logger, TaskType),
	}
	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		clientConfig.HTTPClient = apphttp.NewClient(cfg.Timeout, "demo-generator")
		s.client = openai.NewClientWithConfig(clientConfig)
	}
	return s
}

// Configured reports whether a text-generation credential is present.
func (s *Service) Configured() bool {
	return s.config.APIKey != ""
}

// GeneratePosts asks the model for a week of posts and parses them.
// A missing credential fails before any network call.
func (s *Service) GeneratePosts(ctx context.Context, input *Input) (*Output, error) {
	if !s.Configured() || s.client == nil {
		return nil, apperrors.NewConfigurationError(ErrAPIKeyNotConfigured.Error()).WithCause(ErrAPIKeyNotConfigured)
	}

	s.logger.Info("Generating posts", map[string]interface{}{
		"industry":     input.Industry,
		"businessType": input.BusinessType,
		"model":        s.config.Model,
	})

	resp, err := s.complete(ctx, s.buildPrompt(input))
	if err != nil {
		if errors.Is(err, ErrGenerationTimeout) {
			return nil, apperrors.NewTimeoutError("Content generation", err)
		}
		reason := strings.TrimPrefix(err.Error(), ErrGenerationFailed.Error()+": ")
		return nil, apperrors.NewDependencyError("openai", "Content generation failed: "+reason, err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	out := &Output{
		Posts:      ParsePosts(text),
		TokensUsed: resp.Usage.TotalTokens,
		Model:      s.config.Model,
	}
	if len(out.Posts) == 0 {
		s.logger.Warn("No posts parsed from completion, using fallback post", map[string]interface{}{
			"responseLength": len(text),
		})
		out.Posts = append(out.Posts, FallbackPost(input))
		out.Fallback = true
	}
	out.Summary = fmt.Sprintf("Generated %d posts for %s in %s targeting %s",
		len(out.Posts), input.BusinessType, input.Industry, input.TargetAudience)

	s.logger.Info("Posts generated", map[string]interface{}{
		"posts":      len(out.Posts),
		"tokensUsed": out.TokensUsed,
		"fallback":   out.Fallback,
	})
	return out, nil
}

// ValidateContent is the advisory quality check on a post set.
func (s *Service) ValidateContent(posts []models.SocialPost) models.ContentReport {
	return ValidateContent(posts)
}

func (s *Service) complete(ctx context.Context, prompt string) (openai.ChatCompletionResponse, error) {
	req := openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(250*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, fmt.Errorf("%w: %v", ErrGenerationTimeout, ctx.Err())
			}
		}

		resp, err := s.client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return openai.ChatCompletionResponse{}, fmt.Errorf("%w: %v", ErrGenerationTimeout, ctx.Err())
		}
		if !retryable(err) {
			break
		}
		s.logger.Warn("Completion attempt failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}
	return openai.ChatCompletionResponse{}, fmt.Errorf("%w: %w", ErrGenerationFailed, lastErr)
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	return true
}

const systemPrompt = "You are a social media copywriter for small businesses. Follow the output format exactly."

func (s *Service) buildPrompt(input *Input) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Write %d social media posts for a %s in the %s industry.", PostsPerDemo, input.BusinessType, input.Industry))
	if input.BusinessName != "" {
		parts = append(parts, fmt.Sprintf("Business name: %s", input.BusinessName))
	}
	parts = append(parts, fmt.Sprintf("Target audience: %s", input.TargetAudience))
	parts = append(parts, fmt.Sprintf("Brand voice: %s", input.BrandVoice))

	parts = append(parts, "\nMix these post types: educational, motivational, case-study, tips, industry-news.")
	parts = append(parts, fmt.Sprintf("Each post must be between %d and %d characters and include 3 to 5 relevant hashtags.", MinCaptionLength, MaxCaptionLength))

	parts = append(parts, "\nUse exactly this format for every post:")
	parts = append(parts, "POST 1:")
	parts = append(parts, "Type: <post type>")
	parts = append(parts, "Content: <post text>")
	parts = append(parts, "Hashtags: #tag1 #tag2 #tag3")
	parts = append(parts, "")
	parts = append(parts, fmt.Sprintf("Continue with POST 2: through POST %d:.", PostsPerDemo))

	return strings.Join(parts, "\n")
}
