package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"brandintel-backend-go/internal/models"
	"brandintel-backend-go/internal/query"
)

type MediaInput struct {
	ImageURL    *string
	VideoURL    *string
	Width       *int
	Height      *int
	DurationSec *int
}

type ContentInput struct {
	BrandID     string
	Platform    string
	ContentType *string
	URL         string
	Caption     *string
	Hashtags    []string
	Mentions    []string
	TaggedUsers []string
	CreatedAt   time.Time
	Media       []MediaInput
}

// ContentRecord is a stored content item with the media written alongside it.
type ContentRecord struct {
	models.Content
	Media []models.ContentMedia `json:"media,omitempty"`
}

// CreateContent stores a content item and one media row per attachment, in
// request order.
func CreateContent(ctx context.Context, db DB, mode FanoutMode, in ContentInput) (ContentRecord, error) {
	brandID, ok := parseID(in.BrandID)
	if !ok {
		return ContentRecord{}, ErrValidation("brand_id must be a valid id", []FieldError{{Field: "brand_id", Message: "invalid id"}})
	}
	platform, err := NormalizeRequired(in.Platform, "platform")
	if err != nil {
		return ContentRecord{}, err
	}
	url, err := NormalizeRequired(in.URL, "url")
	if err != nil {
		return ContentRecord{}, err
	}

	id := uuid.NewString()
	var record ContentRecord
	job := fanout{
		primary: func(ctx context.Context, ext sqlx.ExtContext) error {
			return sqlx.GetContext(ctx, ext, &record.Content, `
INSERT INTO content (id, brand_id, platform, content_type, url, caption, hashtags, mentions, tagged_users, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+models.ContentColumns,
				id, brandID, platform, trimOptional(in.ContentType), url, in.Caption,
				pq.StringArray(uniqueNonBlank(in.Hashtags)), pq.StringArray(uniqueNonBlank(in.Mentions)),
				pq.StringArray(uniqueNonBlank(in.TaggedUsers)), in.CreatedAt.UTC())
		},
	}
	media := make([]models.ContentMedia, len(in.Media))
	for i, item := range in.Media {
		i, item := i, item
		job.dependents = append(job.dependents, func(ctx context.Context, ext sqlx.ExtContext) error {
			err := sqlx.GetContext(ctx, ext, &media[i], `
INSERT INTO content_media (id, content_id, image_url, video_url, width, height, duration_sec, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+models.ContentMediaColumns,
				uuid.NewString(), id, trimOptional(item.ImageURL), trimOptional(item.VideoURL),
				item.Width, item.Height, item.DurationSec, i)
			if err != nil {
				return fmt.Errorf("store media %d: %w", i, err)
			}
			return nil
		})
	}

	res, err := job.run(ctx, db, mode)
	if err != nil {
		record.Media = media[:res.Written]
		return ContentRecord{}, fanoutError(res, len(media), record, "content", err)
	}
	record.Media = media
	return record, nil
}

func GetContent(ctx context.Context, db sqlx.QueryerContext, id string) (models.Content, error) {
	contentID, ok := parseID(id)
	if !ok {
		return models.Content{}, ErrNotFound("Content not found")
	}
	var content models.Content
	err := sqlx.GetContext(ctx, db, &content, `SELECT `+models.ContentColumns+` FROM content WHERE id = $1`, contentID)
	if err != nil {
		return models.Content{}, lookupError(err, "Content not found", "load content")
	}
	return content, nil
}

type ContentFilter struct {
	Platform    string
	ContentType string
}

// Filter scopes the feed to one brand before the optional predicates.
func (f ContentFilter) Filter(brandID string) query.Filter {
	q := query.NewFilter(query.Eq("brand_id", brandID))
	q.AddIf(f.Platform != "", query.Eq("platform", f.Platform))
	q.AddIf(f.ContentType != "", query.Eq("content_type", f.ContentType))
	return q
}

// ListBrandContent returns one page of a brand's content feed, newest publish
// time first. The total counts the whole filtered feed.
func ListBrandContent(ctx context.Context, db sqlx.QueryerContext, brandID string, f ContentFilter, page query.Page) (query.Result[models.Content], error) {
	id, ok := parseID(brandID)
	if !ok {
		return query.Result[models.Content]{}, ErrNotFound("Brand not found")
	}
	result, err := query.List[models.Content](ctx, db, query.Listing{
		Table:   "content",
		Columns: models.ContentColumns,
		Filter:  f.Filter(id),
		Order:   query.Order{Column: "created_at", TieBreak: "id"},
		Page:    page,
	})
	if err != nil {
		return query.Result[models.Content]{}, classify(err, "list brand content")
	}
	return result, nil
}

// ContentMediaFor returns the media of a content item in attachment order.
func ContentMediaFor(ctx context.Context, db sqlx.QueryerContext, contentID string) ([]models.ContentMedia, error) {
	id, ok := parseID(contentID)
	if !ok {
		return nil, ErrNotFound("Content not found")
	}
	media := []models.ContentMedia{}
	err := sqlx.SelectContext(ctx, db, &media,
		`SELECT `+models.ContentMediaColumns+` FROM content_media WHERE content_id = $1 ORDER BY position ASC, created_at ASC`, id)
	if err != nil {
		return nil, classify(err, "list content media")
	}
	return media, nil
}
