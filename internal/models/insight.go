// internal/models/insight.go
package models

import (
	"strings"
	"time"
)

// Insight types served by the provider rotation.
const (
	InsightStatistic    = "statistic"
	InsightTrend        = "trend"
	InsightBestPractice = "best-practice"
	InsightOpportunity  = "opportunity"
)

// MinInsightConfidence is the lowest confidence an insight may carry and still be shown.
const MinInsightConfidence = 0.7

// IndustryInsight is a sourced fact about an industry.
type IndustryInsight struct {
	ID          string    `json:"id"`
	Industry    string    `json:"industry"`
	InsightType string    `json:"insightType"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Metric      string    `json:"metric,omitempty"`
	Source      string    `json:"source,omitempty"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// Usable reports whether the insight is sourced, confident and carries a metric.
func (i IndustryInsight) Usable() bool {
	return strings.TrimSpace(i.Source) != "" &&
		i.Confidence >= MinInsightConfidence &&
		strings.TrimSpace(i.Metric) != ""
}
