package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandintel-backend-go/internal/models"
)

func TestParseTime(t *testing.T) {
	got, err := parseTime("2024-04-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseTime("2024-04-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC), got)

	_, err = parseTime("yesterday")
	assert.Error(t, err)
}

func TestBrandRows(t *testing.T) {
	tier := "premium"
	rows := brandRows([]models.Brand{{
		ID:        "b1",
		Name:      "Nike Inc.",
		Tier:      &tier,
		Aesthetic: pq.StringArray{"Bold", "Sport"},
		CreatedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"b1", "Nike Inc.", "-", "-", "premium", "Bold, Sport", "2024-05-01 08:30"}, rows[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestBrandsListOmitsUnsetFlags(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[],"meta":{"total":0,"limit":20,"offset":0}}`))
	}))
	defer srv.Close()

	apiURL = srv.URL
	jsonOutput = false
	t.Cleanup(func() { apiURL = "" })

	rootCmd.SetArgs([]string{"brands", "list", "--api-url", srv.URL, "--search", "nike"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "search=nike", rawQuery)
}
