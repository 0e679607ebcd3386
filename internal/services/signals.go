package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brandintel-backend-go/internal/models"
	"brandintel-backend-go/internal/query"
)

type SignalInput struct {
	BrandID    string
	SignalType string
	Confidence float64
	Reason     *string
	DetectedAt time.Time
	ContentIDs []string
}

// CreateSignal stores a signal and links it to each distinct content id.
func CreateSignal(ctx context.Context, db DB, mode FanoutMode, in SignalInput) (models.Signal, error) {
	brandID, ok := parseID(in.BrandID)
	if !ok {
		return models.Signal{}, ErrValidation("brand_id must be a valid id", []FieldError{{Field: "brand_id", Message: "invalid id"}})
	}
	signalType, err := NormalizeRequired(in.SignalType, "signal_type")
	if err != nil {
		return models.Signal{}, err
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return models.Signal{}, ErrValidation("confidence must be between 0 and 1", []FieldError{{Field: "confidence", Message: "must be between 0 and 1"}})
	}
	contentIDs, err := NormalizeIDs("content_ids", in.ContentIDs)
	if err != nil {
		return models.Signal{}, err
	}

	id := uuid.NewString()
	var signal models.Signal
	job := fanout{
		primary: func(ctx context.Context, ext sqlx.ExtContext) error {
			return sqlx.GetContext(ctx, ext, &signal, `
INSERT INTO signals (id, brand_id, signal_type, confidence, reason, detected_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+models.SignalColumns,
				id, brandID, signalType, in.Confidence, trimOptional(in.Reason), in.DetectedAt.UTC())
		},
	}
	for _, contentID := range contentIDs {
		contentID := contentID
		job.dependents = append(job.dependents, func(ctx context.Context, ext sqlx.ExtContext) error {
			_, err := ext.ExecContext(ctx, `INSERT INTO signal_content (signal_id, content_id) VALUES ($1, $2)`, id, contentID)
			if err != nil {
				return fmt.Errorf("link content %s: %w", contentID, err)
			}
			return nil
		})
	}

	res, err := job.run(ctx, db, mode)
	if err != nil {
		signal.ContentIDs = contentIDs[:res.Written]
		return models.Signal{}, fanoutError(res, len(contentIDs), signal, "signal", err)
	}
	signal.ContentIDs = contentIDs
	return signal, nil
}

type SignalFilter struct {
	SignalType string
	BrandID    string
	Since      *time.Time
}

func (f SignalFilter) Filter() query.Filter {
	var q query.Filter
	q.AddIf(f.SignalType != "", query.Eq("signal_type", f.SignalType))
	q.AddIf(f.BrandID != "", query.Eq("brand_id", f.BrandID))
	if f.Since != nil {
		q.Add(query.Since("detected_at", f.Since.UTC()))
	}
	return q
}

func ListSignals(ctx context.Context, db sqlx.QueryerContext, f SignalFilter, page query.Page) (query.Result[models.Signal], error) {
	if f.BrandID != "" {
		brandID, ok := parseID(f.BrandID)
		if !ok {
			return query.Result[models.Signal]{}, ErrValidation("brand_id must be a valid id", []FieldError{{Field: "brand_id", Message: "invalid id"}})
		}
		f.BrandID = brandID
	}
	result, err := query.List[models.Signal](ctx, db, query.Listing{
		Table:   "signals",
		Columns: models.SignalColumns,
		Filter:  f.Filter(),
		Order:   query.Order{Column: "detected_at", TieBreak: "id"},
		Page:    page,
	})
	if err != nil {
		return query.Result[models.Signal]{}, classify(err, "list signals")
	}
	return result, nil
}

// BrandSignals returns every signal of a brand, newest detection first.
func BrandSignals(ctx context.Context, db sqlx.QueryerContext, brandID string) ([]models.Signal, error) {
	id, ok := parseID(brandID)
	if !ok {
		return nil, ErrNotFound("Brand not found")
	}
	signals, err := query.Fetch[models.Signal](ctx, db, query.Listing{
		Table:   "signals",
		Columns: models.SignalColumns,
		Filter:  query.NewFilter(query.Eq("brand_id", id)),
		Order:   query.Order{Column: "detected_at", TieBreak: "id"},
	})
	if err != nil {
		return nil, classify(err, "list brand signals")
	}
	return signals, nil
}
