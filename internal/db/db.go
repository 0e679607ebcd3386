package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Open connects to PostgreSQL through the pgx driver and verifies the
// connection before returning.
func Open(ctx context.Context, dsn, key string) (*sqlx.DB, error) {
	resolved, err := WithKey(dsn, key)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("pgx", resolved)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// WithKey sets key as the password of a URL style DSN. An empty key leaves
// the DSN untouched.
func WithKey(dsn, key string) (string, error) {
	if key == "" {
		return dsn, nil
	}
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Scheme == "" {
		return "", fmt.Errorf("DATABASE_KEY requires a URL style DATABASE_URL")
	}
	username := ""
	if parsed.User != nil {
		username = parsed.User.Username()
	}
	parsed.User = url.UserPassword(username, key)
	return parsed.String(), nil
}
