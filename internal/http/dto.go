package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"brandintel-backend-go/internal/services"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and ISO-8601 without a zone. Zoneless
// values are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", raw)
}

// FlexTime is a request timestamp in any layout ParseTimestamp accepts.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string")
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

type BrandCreateRequest struct {
	Name      string   `json:"name" validate:"required"`
	LogoURL   *string  `json:"logo_url"`
	Industry  *string  `json:"industry"`
	Market    *string  `json:"market"`
	Tier      *string  `json:"tier"`
	Aesthetic []string `json:"aesthetic" validate:"omitempty,max=50"`
}

func (req BrandCreateRequest) input() services.BrandInput {
	return services.BrandInput{
		Name:      req.Name,
		LogoURL:   req.LogoURL,
		Industry:  req.Industry,
		Market:    req.Market,
		Tier:      req.Tier,
		Aesthetic: req.Aesthetic,
	}
}

type SignalCreateRequest struct {
	BrandID    string    `json:"brand_id" validate:"required"`
	SignalType string    `json:"signal_type" validate:"required"`
	Confidence *float64  `json:"confidence" validate:"required,gte=0,lte=1"`
	Reason     *string   `json:"reason"`
	DetectedAt *FlexTime `json:"detected_at" validate:"required"`
	ContentIDs []string  `json:"content_ids"`
}

func (req SignalCreateRequest) input() services.SignalInput {
	return services.SignalInput{
		BrandID:    req.BrandID,
		SignalType: req.SignalType,
		Confidence: *req.Confidence,
		Reason:     req.Reason,
		DetectedAt: req.DetectedAt.Time,
		ContentIDs: req.ContentIDs,
	}
}

type MediaCreateRequest struct {
	ImageURL    *string `json:"image_url"`
	VideoURL    *string `json:"video_url"`
	Width       *int    `json:"width" validate:"omitempty,gte=0"`
	Height      *int    `json:"height" validate:"omitempty,gte=0"`
	DurationSec *int    `json:"duration_sec" validate:"omitempty,gte=0"`
}

type ContentCreateRequest struct {
	BrandID     string               `json:"brand_id" validate:"required"`
	Platform    string               `json:"platform" validate:"required"`
	ContentType *string              `json:"content_type"`
	URL         string               `json:"url" validate:"required"`
	Caption     *string              `json:"caption"`
	Hashtags    []string             `json:"hashtags"`
	Mentions    []string             `json:"mentions"`
	TaggedUsers []string             `json:"tagged_users"`
	CreatedAt   *FlexTime            `json:"created_at" validate:"required"`
	Media       []MediaCreateRequest `json:"media" validate:"omitempty,dive"`
}

func (req ContentCreateRequest) input() services.ContentInput {
	media := make([]services.MediaInput, 0, len(req.Media))
	for _, item := range req.Media {
		media = append(media, services.MediaInput{
			ImageURL:    item.ImageURL,
			VideoURL:    item.VideoURL,
			Width:       item.Width,
			Height:      item.Height,
			DurationSec: item.DurationSec,
		})
	}
	return services.ContentInput{
		BrandID:     req.BrandID,
		Platform:    req.Platform,
		ContentType: req.ContentType,
		URL:         req.URL,
		Caption:     req.Caption,
		Hashtags:    req.Hashtags,
		Mentions:    req.Mentions,
		TaggedUsers: req.TaggedUsers,
		CreatedAt:   req.CreatedAt.Time,
		Media:       media,
	}
}

type MetricsCreateRequest struct {
	Likes    *int64 `json:"likes" validate:"required,gte=0"`
	Comments *int64 `json:"comments" validate:"required,gte=0"`
	Views    *int64 `json:"views" validate:"omitempty,gte=0"`
}

func (req MetricsCreateRequest) input() services.MetricsInput {
	return services.MetricsInput{Likes: *req.Likes, Comments: *req.Comments, Views: req.Views}
}

type SnapshotCreateRequest struct {
	BrandID        string          `json:"brand_id" validate:"required"`
	PageURL        string          `json:"page_url" validate:"required"`
	CapturedAt     *FlexTime       `json:"captured_at" validate:"required"`
	VisualIdentity json.RawMessage `json:"visual_identity"`
	Typography     json.RawMessage `json:"typography"`
	Messaging      json.RawMessage `json:"messaging"`
	Navigation     json.RawMessage `json:"navigation"`
	Screenshots    json.RawMessage `json:"screenshots"`
	Stats          json.RawMessage `json:"stats"`
}

func (req SnapshotCreateRequest) input() services.SnapshotInput {
	return services.SnapshotInput{
		BrandID:        req.BrandID,
		PageURL:        req.PageURL,
		CapturedAt:     req.CapturedAt.Time,
		VisualIdentity: req.VisualIdentity,
		Typography:     req.Typography,
		Messaging:      req.Messaging,
		Navigation:     req.Navigation,
		Screenshots:    req.Screenshots,
		Stats:          req.Stats,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into dst and validates it. Failures
// come back as validation ServiceErrors naming the offending fields.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return services.ErrValidation("request body is required", nil)
		case errors.As(err, &typeErr):
			return services.ErrValidation("invalid request body", []services.FieldError{{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()}})
		default:
			return services.ErrValidation("invalid request body", []services.FieldError{{Field: "body", Message: err.Error()}})
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return services.ErrValidation("invalid request body", nil)
		}
		details := make([]services.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, services.FieldError{Field: fieldPath(fe), Message: describe(fe)})
		}
		return services.ErrValidation("invalid request body", details)
	}
	return nil
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "max":
		return "must have at most " + fe.Param() + " items"
	default:
		return "failed " + fe.Tag()
	}
}
