package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"brandintel-backend-go/internal/models"
)

type MetricsInput struct {
	Likes    int64
	Comments int64
	Views    *int64
}

// RecordMetrics appends an engagement observation for a content item.
// Earlier observations are never touched.
func RecordMetrics(ctx context.Context, db sqlx.QueryerContext, contentID string, in MetricsInput) (models.ContentMetrics, error) {
	id, ok := parseID(contentID)
	if !ok {
		return models.ContentMetrics{}, ErrNotFound("Content not found")
	}
	if in.Likes < 0 || in.Comments < 0 || (in.Views != nil && *in.Views < 0) {
		return models.ContentMetrics{}, ErrValidation("metrics must not be negative", []FieldError{{Field: "likes", Message: "likes, comments and views must be >= 0"}})
	}
	var sample models.ContentMetrics
	err := sqlx.GetContext(ctx, db, &sample, `
INSERT INTO content_metrics (id, content_id, likes, comments, views)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+models.ContentMetricsColumns,
		uuid.NewString(), id, in.Likes, in.Comments, in.Views)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.ContentMetrics{}, ErrNotFound("Content not found")
		}
		return models.ContentMetrics{}, classify(err, "record metrics")
	}
	return sample, nil
}

// MetricsFor returns the engagement series of a content item, newest first.
func MetricsFor(ctx context.Context, db sqlx.QueryerContext, contentID string) ([]models.ContentMetrics, error) {
	id, ok := parseID(contentID)
	if !ok {
		return nil, ErrNotFound("Content not found")
	}
	samples := []models.ContentMetrics{}
	err := sqlx.SelectContext(ctx, db, &samples,
		`SELECT `+models.ContentMetricsColumns+` FROM content_metrics WHERE content_id = $1 ORDER BY collected_at DESC, id DESC`, id)
	if err != nil {
		return nil, classify(err, "list metrics")
	}
	return samples, nil
}
