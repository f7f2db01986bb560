package demolog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"demo-generator/internal/common/logger"

	"github.com/lib/pq"
)

const TaskType = "demo-log"

var (
	ErrDuplicateDemo = errors.New("demo already logged")
	ErrWriteFailed   = errors.New("demo log write failed")
)

const (
	insertEntry = `INSERT INTO demo_logs
		(demo_id, business_name, industry, recipient_email, success, email_sent,
		 posts_count, graphics_count, has_pdf, processing_ms, tokens_used, estimated_cost,
		 errors, warnings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	selectIndustryStats = `SELECT industry,
		COUNT(*),
		COUNT(*) FILTER (WHERE success),
		COUNT(*) FILTER (WHERE email_sent),
		COALESCE(SUM(estimated_cost), 0),
		COALESCE(AVG(processing_ms), 0)
		FROM demo_logs
		GROUP BY industry
		ORDER BY COUNT(*) DESC, industry`
)

const uniqueViolation = "23505"

type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger.ForComponent(log, TaskType),
	}
}

// Insert writes one entry. Logging the same demo twice returns ErrDuplicateDemo.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	errs, err := jsonList(e.Errors)
	if err != nil {
		return err
	}
	warns, err := jsonList(e.Warnings)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertEntry,
		e.DemoID, e.BusinessName, e.Industry, e.RecipientEmail, e.Success, e.EmailSent,
		e.PostsCount, e.GraphicsCount, e.HasPDF, e.ProcessingTime.Milliseconds(), e.TokensUsed, e.EstimatedCost,
		errs, warns,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateDemo, e.DemoID)
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	r.logger.Debug("Demo logged", map[string]interface{}{
		"demoId":  e.DemoID,
		"success": e.Success,
	})
	return nil
}

// IndustryStats returns per-industry totals, busiest industry first.
func (r *Repository) IndustryStats(ctx context.Context) ([]IndustryStats, error) {
	rows, err := r.db.QueryContext(ctx, selectIndustryStats)
	if err != nil {
		return nil, fmt.Errorf("query demo stats: %w", err)
	}
	defer rows.Close()

	var out []IndustryStats
	for rows.Next() {
		var s IndustryStats
		if err := rows.Scan(&s.Industry, &s.Demos, &s.Successful, &s.EmailsSent, &s.TotalCost, &s.AvgProcessMs); err != nil {
			return nil, fmt.Errorf("scan demo stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func jsonList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}
