package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "brand_id", "page_url", "captured_at", "visual_identity", "typography", "messaging", "navigation", "screenshots", "stats", "created_at"})
}

func TestCreateSnapshot_DefaultsMissingSections(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO website_snapshots").
		WithArgs(sqlmock.AnyArg(), brandID, "https://acme.com", fixedTime,
			types.JSONText(`{"primary":"#000"}`), types.JSONText("{}"), types.JSONText("{}"),
			types.JSONText("{}"), types.JSONText("{}"), types.JSONText("{}")).
		WillReturnRows(snapshotRows().AddRow("s1", brandID, "https://acme.com", fixedTime,
			[]byte(`{"primary":"#000"}`), []byte("{}"), []byte("{}"), []byte("{}"), []byte("{}"), []byte("{}"), fixedTime))

	snapshot, err := CreateSnapshot(context.Background(), db, SnapshotInput{
		BrandID:        brandID,
		PageURL:        "https://acme.com",
		CapturedAt:     fixedTime,
		VisualIdentity: json.RawMessage(`{"primary":"#000"}`),
		Typography:     json.RawMessage("null"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary":"#000"}`, snapshot.VisualIdentity.String())
	assert.JSONEq(t, `{}`, snapshot.Stats.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSnapshot_RejectsNonObjectSections(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := CreateSnapshot(context.Background(), db, SnapshotInput{
		BrandID:    brandID,
		PageURL:    "https://acme.com",
		CapturedAt: fixedTime,
		Stats:      json.RawMessage(`[1,2]`),
		Messaging:  json.RawMessage(`"tagline"`),
	})
	serr := requireCode(t, err, CodeValidation)
	assert.Len(t, serr.Details, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestSnapshot(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY captured_at DESC, id DESC\nLIMIT 1")).
		WithArgs(brandID).
		WillReturnRows(snapshotRows().AddRow("s2", brandID, "https://acme.com", fixedTime,
			[]byte("{}"), []byte("{}"), []byte("{}"), []byte("{}"), []byte("{}"), []byte("{}"), fixedTime))

	snapshot, err := LatestSnapshot(context.Background(), db, brandID)
	require.NoError(t, err)
	assert.Equal(t, "s2", snapshot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestSnapshot_NoneStored(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM website_snapshots").WithArgs(brandID).WillReturnRows(snapshotRows())

	_, err := LatestSnapshot(context.Background(), db, brandID)
	serr := requireCode(t, err, CodeNotFound)
	assert.Equal(t, "No snapshots found", serr.Message)
}

func TestRecordMetrics(t *testing.T) {
	db, mock := newMockDB(t)
	views := int64(5400)

	mock.ExpectQuery("INSERT INTO content_metrics").
		WithArgs(sqlmock.AnyArg(), contentID, 120, 8, 5400).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_id", "likes", "comments", "views", "collected_at"}).
			AddRow("cm1", contentID, 120, 8, 5400, fixedTime))

	sample, err := RecordMetrics(context.Background(), db, contentID, MetricsInput{Likes: 120, Comments: 8, Views: &views})
	require.NoError(t, err)
	assert.Equal(t, int64(120), sample.Likes)
	require.NotNil(t, sample.Views)
	assert.Equal(t, int64(5400), *sample.Views)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMetrics_UnknownContent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("INSERT INTO content_metrics").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := RecordMetrics(context.Background(), db, contentID, MetricsInput{Likes: 1})
	serr := requireCode(t, err, CodeNotFound)
	assert.Equal(t, "Content not found", serr.Message)
}

func TestRecordMetrics_RejectsNegativeCounts(t *testing.T) {
	db, mock := newMockDB(t)
	_, err := RecordMetrics(context.Background(), db, contentID, MetricsInput{Likes: -1})
	requireCode(t, err, CodeValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsFor_StoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM content_metrics").WillReturnError(errors.New("timeout"))

	_, err := MetricsFor(context.Background(), db, contentID)
	requireCode(t, err, CodeDependencyFailure)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestCheckHealth(t *testing.T) {
	report := CheckHealth(context.Background(), pingFunc(func(context.Context) error { return nil }))
	assert.True(t, report.Healthy())
	assert.Equal(t, ServiceName, report.Service)
	assert.Equal(t, StatusOK, report.Checks["database"].Status)

	report = CheckHealth(context.Background(), pingFunc(func(context.Context) error { return errors.New("refused") }))
	assert.False(t, report.Healthy())
	assert.Equal(t, "refused", report.Checks["database"].Message)
}
