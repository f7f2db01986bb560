// pkg/seed/seed.go
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"demo-generator/internal/models"
	industryinsight "demo-generator/internal/workers/insight/industry-insight"
)

const FormatVersion = "1.0.0"

var insightTypes = map[string]bool{
	models.InsightStatistic:    true,
	models.InsightTrend:        true,
	models.InsightBestPractice: true,
	models.InsightOpportunity:  true,
}

// Upserter writes one insight.
type Upserter interface {
	UpsertInsight(ctx context.Context, in models.IndustryInsight) error
}

// Lister reads every active insight.
type Lister interface {
	ListInsights(ctx context.Context) ([]models.IndustryInsight, error)
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &f, nil
}

func Save(f *File, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seed file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write seed file: %w", err)
	}
	return nil
}

// Validate lists every problem in the file. Industries are checked in their normalized form.
func Validate(f *File) []string {
	var problems []string
	if len(f.Insights) == 0 {
		return []string{"seed file contains no insights"}
	}

	ids := make(map[string]bool, len(f.Insights))
	for i, in := range f.Insights {
		label := in.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
			problems = append(problems, fmt.Sprintf("insight %s missing required field: id", label))
		} else if ids[in.ID] {
			problems = append(problems, fmt.Sprintf("duplicate insight id: %s", in.ID))
		}
		ids[in.ID] = true

		if strings.TrimSpace(in.Industry) == "" {
			problems = append(problems, fmt.Sprintf("insight %s missing required field: industry", label))
		} else if norm := industryinsight.NormalizeIndustry(in.Industry); norm != in.Industry {
			problems = append(problems, fmt.Sprintf("insight %s industry %q should be %q", label, in.Industry, norm))
		}
		if !insightTypes[in.InsightType] {
			problems = append(problems, fmt.Sprintf("insight %s has unknown type %q", label, in.InsightType))
		}
		if strings.TrimSpace(in.Title) == "" {
			problems = append(problems, fmt.Sprintf("insight %s missing required field: title", label))
		}
		if strings.TrimSpace(in.Description) == "" {
			problems = append(problems, fmt.Sprintf("insight %s missing required field: description", label))
		}
		if !industryinsight.ValidateInsight(&in) {
			problems = append(problems, fmt.Sprintf("insight %s is not usable: needs source, metric and confidence >= %.2f", label, models.MinInsightConfidence))
		}
	}
	return problems
}

// Apply upserts every insight in file order and returns how many were written.
func Apply(ctx context.Context, f *File, store Upserter) (int, error) {
	for i, in := range f.Insights {
		if err := store.UpsertInsight(ctx, in); err != nil {
			return i, err
		}
	}
	return len(f.Insights), nil
}

// Export builds a file from the store, or from the built-in table when store is nil.
func Export(ctx context.Context, store Lister, now time.Time) (*File, error) {
	var insights []models.IndustryInsight
	if store != nil {
		var err error
		if insights, err = store.ListInsights(ctx); err != nil {
			return nil, err
		}
	} else {
		industries := industryinsight.FallbackIndustries()
		sort.Strings(industries)
		for _, industry := range industries {
			insights = append(insights, industryinsight.Fallback(industry)...)
		}
	}
	if insights == nil {
		insights = []models.IndustryInsight{}
	}
	return &File{
		Version:     FormatVersion,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Insights:    insights,
	}, nil
}
