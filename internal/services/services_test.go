package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const (
	brandID   = "4f1b2c3d-1111-4a5b-8c9d-000000000001"
	contentA  = "4f1b2c3d-2222-4a5b-8c9d-00000000000a"
	contentB  = "4f1b2c3d-2222-4a5b-8c9d-00000000000b"
	signalID  = "4f1b2c3d-3333-4a5b-8c9d-000000000001"
	contentID = "4f1b2c3d-2222-4a5b-8c9d-000000000001"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func brandRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "logo_url", "industry", "market", "tier", "aesthetic", "created_at"})
}

func signalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "brand_id", "signal_type", "confidence", "reason", "detected_at", "created_at"})
}

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "brand_id", "platform", "content_type", "url", "caption", "hashtags", "mentions", "tagged_users", "created_at", "inserted_at"})
}

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "content_id", "image_url", "video_url", "width", "height", "duration_sec", "position", "created_at"})
}

func requireCode(t *testing.T, err error, code string) ServiceError {
	t.Helper()
	require.Error(t, err)
	var serr ServiceError
	require.True(t, errors.As(err, &serr), "expected ServiceError, got %T: %v", err, err)
	require.Equal(t, code, serr.Code, serr.Message)
	return serr
}
