package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBrands_SendsOnlyGivenFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/brands", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"b1","name":"Nike Inc.","aesthetic":["Bold"],"created_at":"2024-05-01T08:00:00Z"}],"meta":{"total":45,"limit":20,"offset":20}}`))
	}))
	defer srv.Close()

	page, err := New(srv.URL, srv.Client()).ListBrands(context.Background(), BrandQuery{
		IDs:       []string{"a", "b"},
		Search:    "nike",
		Aesthetic: "Bold",
		Window:    Window{Limit: 20, Offset: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 45, page.Meta.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Nike Inc.", page.Data[0].Name)

	assert.Equal(t, map[string][]string{
		"ids":       {"a", "b"},
		"search":    {"nike"},
		"aesthetic": {"Bold"},
		"limit":     {"20"},
		"offset":    {"20"},
	}, gotQuery)
}

func TestListSignals_FormatsSince(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-04-01T00:00:00Z", r.URL.Query().Get("since"))
		assert.Empty(t, r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0,"limit":20,"offset":0}}`))
	}))
	defer srv.Close()

	since := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	page, err := New(srv.URL, nil).ListSignals(context.Background(), SignalQuery{Since: &since})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 20, page.Meta.Limit)
}

func TestGetBrand_DecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "content,signals", r.URL.Query().Get("include"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"not_found","message":"Brand not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetBrand(context.Background(), "missing", "content", "signals")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "not_found", apiErr.Code)
	assert.Equal(t, "api error 404 (not_found): Brand not found", apiErr.Error())
}

func TestCreateSignal_PostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "launch", body["signal_type"])
		assert.Len(t, body["content_ids"], 2)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"s1","brand_id":"b1","signal_type":"launch","confidence":0.9,"detected_at":"2024-05-01T08:00:00Z","created_at":"2024-05-01T08:00:00Z","content_ids":["c1","c2"]}`))
	}))
	defer srv.Close()

	signal, err := New(srv.URL, nil).CreateSignal(context.Background(), NewSignal{
		BrandID:    "b1",
		SignalType: "launch",
		Confidence: 0.9,
		DetectedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		ContentIDs: []string{"c1", "c2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", signal.ID)
	assert.Equal(t, []string{"c1", "c2"}, signal.ContentIDs)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Health(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "bad gateway", apiErr.Message)
}
