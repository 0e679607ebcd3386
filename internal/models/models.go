package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

type Brand struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	LogoURL   *string        `db:"logo_url" json:"logo_url"`
	Industry  *string        `db:"industry" json:"industry"`
	Market    *string        `db:"market" json:"market"`
	Tier      *string        `db:"tier" json:"tier"`
	Aesthetic pq.StringArray `db:"aesthetic" json:"aesthetic"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Content is a single post scraped from a social platform. CreatedAt is the
// publish time reported by the platform, InsertedAt the ingestion time.
type Content struct {
	ID          string         `db:"id" json:"id"`
	BrandID     string         `db:"brand_id" json:"brand_id"`
	Platform    string         `db:"platform" json:"platform"`
	ContentType *string        `db:"content_type" json:"content_type"`
	URL         string         `db:"url" json:"url"`
	Caption     *string        `db:"caption" json:"caption"`
	Hashtags    pq.StringArray `db:"hashtags" json:"hashtags"`
	Mentions    pq.StringArray `db:"mentions" json:"mentions"`
	TaggedUsers pq.StringArray `db:"tagged_users" json:"tagged_users"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	InsertedAt  time.Time      `db:"inserted_at" json:"inserted_at"`
}

type ContentMedia struct {
	ID          string    `db:"id" json:"id"`
	ContentID   string    `db:"content_id" json:"content_id"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	VideoURL    *string   `db:"video_url" json:"video_url"`
	Width       *int      `db:"width" json:"width"`
	Height      *int      `db:"height" json:"height"`
	DurationSec *int      `db:"duration_sec" json:"duration_sec"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ContentMetrics is one observation in the append-only engagement series.
type ContentMetrics struct {
	ID          string    `db:"id" json:"id"`
	ContentID   string    `db:"content_id" json:"content_id"`
	Likes       int64     `db:"likes" json:"likes"`
	Comments    int64     `db:"comments" json:"comments"`
	Views       *int64    `db:"views" json:"views"`
	CollectedAt time.Time `db:"collected_at" json:"collected_at"`
}

type Signal struct {
	ID         string    `db:"id" json:"id"`
	BrandID    string    `db:"brand_id" json:"brand_id"`
	SignalType string    `db:"signal_type" json:"signal_type"`
	Confidence float64   `db:"confidence" json:"confidence"`
	Reason     *string   `db:"reason" json:"reason"`
	DetectedAt time.Time `db:"detected_at" json:"detected_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ContentIDs []string  `db:"-" json:"content_ids,omitempty"`
}

type SignalContent struct {
	SignalID  string `db:"signal_id" json:"signal_id"`
	ContentID string `db:"content_id" json:"content_id"`
}

type WebsiteSnapshot struct {
	ID             string         `db:"id" json:"id"`
	BrandID        string         `db:"brand_id" json:"brand_id"`
	PageURL        string         `db:"page_url" json:"page_url"`
	CapturedAt     time.Time      `db:"captured_at" json:"captured_at"`
	VisualIdentity types.JSONText `db:"visual_identity" json:"visual_identity"`
	Typography     types.JSONText `db:"typography" json:"typography"`
	Messaging      types.JSONText `db:"messaging" json:"messaging"`
	Navigation     types.JSONText `db:"navigation" json:"navigation"`
	Screenshots    types.JSONText `db:"screenshots" json:"screenshots"`
	Stats          types.JSONText `db:"stats" json:"stats"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

const (
	BrandColumns           = "id, name, logo_url, industry, market, tier, aesthetic, created_at"
	ContentColumns         = "id, brand_id, platform, content_type, url, caption, hashtags, mentions, tagged_users, created_at, inserted_at"
	ContentMediaColumns    = "id, content_id, image_url, video_url, width, height, duration_sec, position, created_at"
	ContentMetricsColumns  = "id, content_id, likes, comments, views, collected_at"
	SignalColumns          = "id, brand_id, signal_type, confidence, reason, detected_at, created_at"
	WebsiteSnapshotColumns = "id, brand_id, page_url, captured_at, visual_identity, typography, messaging, navigation, screenshots, stats, created_at"
)
