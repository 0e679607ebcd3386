package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"brandintel-backend-go/internal/models"
)

type SnapshotInput struct {
	BrandID        string
	PageURL        string
	CapturedAt     time.Time
	VisualIdentity json.RawMessage
	Typography     json.RawMessage
	Messaging      json.RawMessage
	Navigation     json.RawMessage
	Screenshots    json.RawMessage
	Stats          json.RawMessage
}

func CreateSnapshot(ctx context.Context, db sqlx.QueryerContext, in SnapshotInput) (models.WebsiteSnapshot, error) {
	brandID, ok := parseID(in.BrandID)
	if !ok {
		return models.WebsiteSnapshot{}, ErrValidation("brand_id must be a valid id", []FieldError{{Field: "brand_id", Message: "invalid id"}})
	}
	pageURL, err := NormalizeRequired(in.PageURL, "page_url")
	if err != nil {
		return models.WebsiteSnapshot{}, err
	}

	blobs := []struct {
		field string
		raw   json.RawMessage
	}{
		{"visual_identity", in.VisualIdentity},
		{"typography", in.Typography},
		{"messaging", in.Messaging},
		{"navigation", in.Navigation},
		{"screenshots", in.Screenshots},
		{"stats", in.Stats},
	}
	args := []interface{}{uuid.NewString(), brandID, pageURL, in.CapturedAt.UTC()}
	var problems []FieldError
	for _, blob := range blobs {
		value, ok := objectOrEmpty(blob.raw)
		if !ok {
			problems = append(problems, FieldError{Field: blob.field, Message: "must be a JSON object"})
			continue
		}
		args = append(args, value)
	}
	if len(problems) > 0 {
		return models.WebsiteSnapshot{}, ErrValidation("snapshot sections must be JSON objects", problems)
	}

	var snapshot models.WebsiteSnapshot
	err = sqlx.GetContext(ctx, db, &snapshot, `
INSERT INTO website_snapshots (id, brand_id, page_url, captured_at, visual_identity, typography, messaging, navigation, screenshots, stats)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+models.WebsiteSnapshotColumns, args...)
	if err != nil {
		return models.WebsiteSnapshot{}, classify(err, "create snapshot")
	}
	return snapshot, nil
}

// LatestSnapshot returns the most recently captured snapshot of a brand.
func LatestSnapshot(ctx context.Context, db sqlx.QueryerContext, brandID string) (models.WebsiteSnapshot, error) {
	id, ok := parseID(brandID)
	if !ok {
		return models.WebsiteSnapshot{}, ErrNotFound("No snapshots found")
	}
	var snapshot models.WebsiteSnapshot
	err := sqlx.GetContext(ctx, db, &snapshot, `
SELECT `+models.WebsiteSnapshotColumns+`
FROM website_snapshots
WHERE brand_id = $1
ORDER BY captured_at DESC, id DESC
LIMIT 1`, id)
	if err != nil {
		return models.WebsiteSnapshot{}, lookupError(err, "No snapshots found", "load snapshot")
	}
	return snapshot, nil
}

// objectOrEmpty maps an absent or null section to an empty object and
// rejects anything that is not an object.
func objectOrEmpty(raw json.RawMessage) (types.JSONText, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return types.JSONText("{}"), true
	}
	if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, false
	}
	return types.JSONText(trimmed), true
}
