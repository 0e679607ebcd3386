// Package client is a typed HTTP client for the brand intelligence API. It
// carries filters as query parameters and holds no business logic.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brandintel-backend-go/internal/models"
)

const DefaultBaseURL = "http://localhost:8001"

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 30 second
// timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	Status  int             `json:"-"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

type BrandContentPage struct {
	BrandID string           `json:"brand_id"`
	Data    []models.Content `json:"data"`
	Meta    Meta             `json:"meta"`
}

type BrandDetail struct {
	models.Brand
	Content []models.Content `json:"content,omitempty"`
	Signals []models.Signal  `json:"signals,omitempty"`
}

type Health struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Checks    map[string]struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"checks"`
}

type NewBrand struct {
	Name      string   `json:"name"`
	LogoURL   *string  `json:"logo_url,omitempty"`
	Industry  *string  `json:"industry,omitempty"`
	Market    *string  `json:"market,omitempty"`
	Tier      *string  `json:"tier,omitempty"`
	Aesthetic []string `json:"aesthetic,omitempty"`
}

type NewSignal struct {
	BrandID    string    `json:"brand_id"`
	SignalType string    `json:"signal_type"`
	Confidence float64   `json:"confidence"`
	Reason     *string   `json:"reason,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
	ContentIDs []string  `json:"content_ids,omitempty"`
}

// Window is the pagination part of a list query. Zero values are not sent,
// so the server defaults apply.
type Window struct {
	Limit  int
	Offset int
}

func (w Window) apply(values url.Values) {
	if w.Limit > 0 {
		values.Set("limit", strconv.Itoa(w.Limit))
	}
	if w.Offset > 0 {
		values.Set("offset", strconv.Itoa(w.Offset))
	}
}

type BrandQuery struct {
	IDs       []string
	Search    string
	Industry  string
	Market    string
	Tier      string
	Aesthetic string
	Window
}

func (q BrandQuery) values() url.Values {
	values := url.Values{}
	for _, id := range q.IDs {
		values.Add("ids", id)
	}
	setIf(values, "search", q.Search)
	setIf(values, "industry", q.Industry)
	setIf(values, "market", q.Market)
	setIf(values, "tier", q.Tier)
	setIf(values, "aesthetic", q.Aesthetic)
	q.Window.apply(values)
	return values
}

type SignalQuery struct {
	SignalType string
	BrandID    string
	Since      *time.Time
	Window
}

func (q SignalQuery) values() url.Values {
	values := url.Values{}
	setIf(values, "signal_type", q.SignalType)
	setIf(values, "brand_id", q.BrandID)
	if q.Since != nil {
		values.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	q.Window.apply(values)
	return values
}

type ContentQuery struct {
	Platform    string
	ContentType string
	Window
}

func (q ContentQuery) values() url.Values {
	values := url.Values{}
	setIf(values, "platform", q.Platform)
	setIf(values, "content_type", q.ContentType)
	q.Window.apply(values)
	return values
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}

func (c *Client) ListBrands(ctx context.Context, q BrandQuery) (Page[models.Brand], error) {
	var out Page[models.Brand]
	err := c.do(ctx, http.MethodGet, "/v1/brands", q.values(), nil, &out)
	return out, err
}

func (c *Client) GetBrand(ctx context.Context, id string, include ...string) (BrandDetail, error) {
	values := url.Values{}
	if len(include) > 0 {
		values.Set("include", strings.Join(include, ","))
	}
	var out BrandDetail
	err := c.do(ctx, http.MethodGet, "/v1/brands/"+url.PathEscape(id), values, nil, &out)
	return out, err
}

func (c *Client) CreateBrand(ctx context.Context, in NewBrand) (models.Brand, error) {
	var out models.Brand
	err := c.do(ctx, http.MethodPost, "/v1/brands", nil, in, &out)
	return out, err
}

func (c *Client) ListSignals(ctx context.Context, q SignalQuery) (Page[models.Signal], error) {
	var out Page[models.Signal]
	err := c.do(ctx, http.MethodGet, "/v1/signals", q.values(), nil, &out)
	return out, err
}

func (c *Client) CreateSignal(ctx context.Context, in NewSignal) (models.Signal, error) {
	var out models.Signal
	err := c.do(ctx, http.MethodPost, "/v1/signals", nil, in, &out)
	return out, err
}

func (c *Client) ListBrandContent(ctx context.Context, brandID string, q ContentQuery) (BrandContentPage, error) {
	var out BrandContentPage
	err := c.do(ctx, http.MethodGet, "/v1/brands/"+url.PathEscape(brandID)+"/content", q.values(), nil, &out)
	return out, err
}

func (c *Client) LatestSnapshot(ctx context.Context, brandID string) (models.WebsiteSnapshot, error) {
	var out struct {
		Snapshot models.WebsiteSnapshot `json:"snapshot"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/brands/"+url.PathEscape(brandID)+"/snapshots", nil, nil, &out)
	return out.Snapshot, err
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func setIf(values url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		values.Set(key, value)
	}
}
