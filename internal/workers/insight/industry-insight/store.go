package industryinsight

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	selectInsights = `SELECT id, industry, insight_type, title, description, metric, source, confidence
		FROM industry_insights
		WHERE industry = $1 AND is_active = true`

	upsertInsight = `INSERT INTO industry_insights
		(id, industry, insight_type, title, description, metric, source, confidence, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		ON CONFLICT (id) DO UPDATE SET
			industry = EXCLUDED.industry,
			insight_type = EXCLUDED.insight_type,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			metric = EXCLUDED.metric,
			source = EXCLUDED.source,
			confidence = EXCLUDED.confidence,
			is_active = true`

	selectAllInsights = `SELECT id, industry, insight_type, title, description, metric, source, confidence
		FROM industry_insights
		WHERE is_active = true
		ORDER BY industry, id`
)

// PostgresStore reads insights from the industry_insights table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindInsights(ctx context.Context, industry, insightType string) ([]models.IndustryInsight, error) {
	query := selectInsights
	args := []interface{}{industry}
	if insightType != "" {
		query += " AND insight_type = $2"
		args = append(args, insightType)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()
	return scanInsights(rows)
}

// ListInsights returns every active insight ordered by industry.
func (s *PostgresStore) ListInsights(ctx context.Context) ([]models.IndustryInsight, error) {
	rows, err := s.db.QueryContext(ctx, selectAllInsights)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()
	return scanInsights(rows)
}

// UpsertInsight inserts or replaces an insight by id and marks it active.
func (s *PostgresStore) UpsertInsight(ctx context.Context, in models.IndustryInsight) error {
	_, err := s.db.ExecContext(ctx, upsertInsight,
		in.ID, in.Industry, in.InsightType, in.Title, in.Description,
		in.Metric, in.Source, in.Confidence,
	)
	if err != nil {
		return fmt.Errorf("upsert insight %s: %w", in.ID, err)
	}
	return nil
}

func scanInsights(rows *sql.Rows) ([]models.IndustryInsight, error) {
	var out []models.IndustryInsight
	for rows.Next() {
		var (
			in             models.IndustryInsight
			metric, source sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.Industry, &in.InsightType, &in.Title, &in.Description, &metric, &source, &in.Confidence); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		in.Metric = metric.String
		in.Source = source.String
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate insights: %w", err)
	}
	return out, nil
}

// CachedStore keeps store results in Redis as JSON. Redis failures fall through
// to the wrapped store; only non-empty results are cached.
type CachedStore struct {
	next   Store
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewCachedStore(next Store, client redis.Cmdable, cfg *Config, log logger.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		ttl:    cfg.CacheTTL,
		prefix: cfg.CachePrefix,
		logger: logger.ForComponent(log, "insight-cache"),
	}
}

// CacheKey is the Redis key holding one industry/type lookup.
func (s *CachedStore) CacheKey(industry, insightType string) string {
	if insightType == "" {
		insightType = "any"
	}
	return fmt.Sprintf("%s:%s:%s", s.prefix, industry, insightType)
}

func (s *CachedStore) FindInsights(ctx context.Context, industry, insightType string) ([]models.IndustryInsight, error) {
	key := s.CacheKey(industry, insightType)

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []models.IndustryInsight
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		s.logger.Warn("Discarding unreadable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Warn("Insight cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	insights, err := s.next.FindInsights(ctx, industry, insightType)
	if err != nil || len(insights) == 0 {
		return insights, err
	}

	payload, err := json.Marshal(insights)
	if err != nil {
		return insights, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("Insight cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return insights, nil
}
