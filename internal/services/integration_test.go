//go:build integration

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"brandintel-backend-go/internal/db"
	"brandintel-backend-go/internal/migrations"
	"brandintel-backend-go/internal/query"
	"brandintel-backend-go/internal/services"
)

// setupTestDB starts PostgreSQL, applies the migrations and returns a handle.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("brandintel"),
		postgres.WithUsername("brandintel"),
		postgres.WithPassword("brandintel"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.Open(ctx, connStr, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	require.NoError(t, migrations.Apply(ctx, database, "../../migrations", logger))
	return database
}

func insertBrand(t *testing.T, database *sqlx.DB, name string, aesthetic []string, createdAt time.Time) string {
	t.Helper()
	id := uuid.NewString()
	if aesthetic == nil {
		aesthetic = []string{}
	}
	_, err := database.Exec(`INSERT INTO brands (id, name, aesthetic, created_at) VALUES ($1, $2, $3, $4)`,
		id, name, aesthetic, createdAt)
	require.NoError(t, err)
	return id
}

func TestIntegration_Brands(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	shared := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 45; i++ {
		insertBrand(t, database, "Brand", []string{"Minimal"}, shared)
	}

	t.Run("paging over equal timestamps has no gaps or duplicates", func(t *testing.T) {
		seen := map[string]bool{}
		for _, offset := range []int{0, 20, 40} {
			page, err := query.NewPage(20, offset)
			require.NoError(t, err)
			result, err := services.ListBrands(ctx, database, services.BrandFilter{}, page)
			require.NoError(t, err)
			assert.Equal(t, 45, result.Total)
			for _, b := range result.Items {
				assert.False(t, seen[b.ID], "duplicate brand %s at offset %d", b.ID, offset)
				seen[b.ID] = true
			}
		}
		assert.Len(t, seen, 45)
	})

	nikeID := insertBrand(t, database, "Nike Inc.", []string{"Bold", "Sport"}, shared.Add(time.Hour))

	t.Run("search is case insensitive", func(t *testing.T) {
		page, _ := query.NewPage(20, 0)
		result, err := services.ListBrands(ctx, database, services.BrandFilter{Search: "nike"}, page)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, nikeID, result.Items[0].ID)
		assert.Equal(t, 1, result.Total)
	})

	t.Run("aesthetic filter matches membership", func(t *testing.T) {
		page, _ := query.NewPage(20, 0)
		result, err := services.ListBrands(ctx, database, services.BrandFilter{Aesthetic: "Bold"}, page)
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, []string{"Bold", "Sport"}, []string(result.Items[0].Aesthetic))
	})
}

func TestIntegration_SignalFanout(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	brandID := insertBrand(t, database, "Acme", nil, time.Now().UTC())

	countSignals := func() int {
		var n int
		require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM signals WHERE brand_id = $1`, brandID))
		return n
	}
	in := services.SignalInput{
		BrandID:    brandID,
		SignalType: "launch",
		Confidence: 0.8,
		DetectedAt: time.Now().UTC(),
		ContentIDs: []string{uuid.NewString()},
	}

	_, err := services.CreateSignal(ctx, database, services.FanoutAtomic, in)
	require.Error(t, err)
	assert.Equal(t, 0, countSignals(), "atomic mode rolls back the signal")

	_, err = services.CreateSignal(ctx, database, services.FanoutSequential, in)
	require.Error(t, err)
	assert.Equal(t, services.CodePartialWrite, services.AsServiceError(err).Code)
	assert.Equal(t, 1, countSignals(), "sequential mode keeps the signal")
}
