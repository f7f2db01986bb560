package industryinsight

import (
	"context"
	"errors"
	"fmt"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
)

const TaskType = "industry-insight"

var ErrInsightNotFound = errors.New("no industry insight available")

type Service struct {
	config *Config
	store  Store
	pick   Picker
	logger logger.Logger
}

func NewService(deps ServiceDependencies, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pick := deps.Picker
	if pick == nil {
		pick = randomPicker
	}
	return &Service{
		config: cfg,
		store:  deps.Store,
		pick:   pick,
		logger: logger.ForComponent(deps.Logger, TaskType),
	}
}

// HasStore reports whether a database-backed store is wired.
func (s *Service) HasStore() bool {
	return s.store != nil
}

// GetInsight returns one insight for the industry, preferring the store and
// falling back to the built-in table. An empty insightType matches any type.
func (s *Service) GetInsight(ctx context.Context, industry, insightType string) (*models.IndustryInsight, error) {
	normalized := NormalizeIndustry(industry)
	if normalized == "" {
		normalized = DefaultIndustry
	}

	if candidates := s.fromStore(ctx, normalized, insightType); len(candidates) > 0 {
		return s.choose(candidates, normalized), nil
	}

	bucket := fallbackFor(normalized)
	candidates := filterByType(bucket, insightType)
	if len(candidates) == 0 {
		candidates = bucket
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInsightNotFound, normalized)
	}

	s.logger.Debug("Serving built-in insight", map[string]interface{}{
		"industry":    normalized,
		"insightType": insightType,
	})
	return s.choose(candidates, normalized), nil
}

// GetMultipleInsights draws one insight per rotation type, then unfiltered ones,
// until count is reached. It stops early when the provider fails and returns
// what it has; an error is returned only when nothing was drawn.
func (s *Service) GetMultipleInsights(ctx context.Context, industry string, count int) ([]models.IndustryInsight, error) {
	if count <= 0 {
		return []models.IndustryInsight{}, nil
	}
	out := make([]models.IndustryInsight, 0, count)
	for i := 0; i < count; i++ {
		insightType := ""
		if i < len(Rotation) {
			insightType = Rotation[i]
		}
		insight, err := s.GetInsight(ctx, industry, insightType)
		if err != nil {
			if len(out) == 0 {
				return nil, err
			}
			break
		}
		out = append(out, *insight)
	}
	return out, nil
}

// ValidateInsight reports whether an insight may be shown.
func (s *Service) ValidateInsight(insight *models.IndustryInsight) bool {
	return ValidateInsight(insight)
}

func ValidateInsight(insight *models.IndustryInsight) bool {
	return insight != nil && insight.Usable()
}

func (s *Service) fromStore(ctx context.Context, industry, insightType string) []models.IndustryInsight {
	if s.store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	insights, err := s.store.FindInsights(ctx, industry, insightType)
	if err == nil && len(insights) == 0 && insightType != "" {
		insights, err = s.store.FindInsights(ctx, industry, "")
	}
	if err != nil {
		s.logger.Warn("Insight store lookup failed, using built-in insights", map[string]interface{}{
			"industry": industry,
			"error":    err.Error(),
		})
		return nil
	}
	return insights
}

func (s *Service) choose(candidates []models.IndustryInsight, industry string) *models.IndustryInsight {
	i := s.pick(len(candidates))
	if i < 0 || i >= len(candidates) {
		i = 0
	}
	chosen := candidates[i]
	if chosen.Industry == "" || chosen.Industry == DefaultIndustry {
		chosen.Industry = industry
	}
	return &chosen
}

func filterByType(insights []models.IndustryInsight, insightType string) []models.IndustryInsight {
	if insightType == "" {
		return insights
	}
	var out []models.IndustryInsight
	for _, in := range insights {
		if in.InsightType == insightType {
			out = append(out, in)
		}
	}
	return out
}
