package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithKey(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		key     string
		want    string
		wantErr bool
	}{
		{name: "no key", dsn: "postgres://app@db:5432/brandintel", want: "postgres://app@db:5432/brandintel"},
		{name: "key becomes password", dsn: "postgres://app@db:5432/brandintel?sslmode=require", key: "s3cret", want: "postgres://app:s3cret@db:5432/brandintel?sslmode=require"},
		{name: "key replaces password", dsn: "postgres://app:old@db/brandintel", key: "new", want: "postgres://app:new@db/brandintel"},
		{name: "keyword dsn", dsn: "host=db user=app", key: "s3cret", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithKey(tt.dsn, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
