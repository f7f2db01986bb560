package industryinsight

import (
	"context"
	"math/rand"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"
)

// Rotation is the order of insight types drawn by GetMultipleInsights.
var Rotation = []string{
	models.InsightStatistic,
	models.InsightTrend,
	models.InsightBestPractice,
	models.InsightOpportunity,
}

// Store looks up active insights. An empty insightType matches every type.
type Store interface {
	FindInsights(ctx context.Context, industry, insightType string) ([]models.IndustryInsight, error)
}

// Picker returns an index in [0, n).
type Picker func(n int) int

func randomPicker(n int) int {
	return rand.Intn(n)
}

// ServiceDependencies wires the provider. Store and Picker are optional:
// without a store only the built-in table is used.
type ServiceDependencies struct {
	Logger logger.Logger
	Store  Store
	Picker Picker
}
