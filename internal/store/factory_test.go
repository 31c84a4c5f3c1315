package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookclub/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    any
		wantErr string
	}{
		{
			name: "memory",
			cfg:  config.StoreConfig{Backend: config.BackendMemory},
			want: &Memory{},
		},
		{
			name: "sqlite",
			cfg:  config.StoreConfig{Backend: config.BackendSQLite, SQLitePath: filepath.Join(dir, "books.db"), Timeout: time.Second},
			want: &SQLite{},
		},
		{
			name: "xlsx",
			cfg:  config.StoreConfig{Backend: config.BackendXLSX, XLSXPath: filepath.Join(dir, "books.xlsx"), XLSXSheet: "Sheet1"},
			want: &XLSX{},
		},
		{
			name:    "sqlite without path",
			cfg:     config.StoreConfig{Backend: config.BackendSQLite},
			wantErr: "SQLITE_PATH",
		},
		{
			name:    "xlsx without path",
			cfg:     config.StoreConfig{Backend: config.BackendXLSX},
			wantErr: "XLSX_PATH",
		},
		{
			name:    "s3 without bucket",
			cfg:     config.StoreConfig{Backend: config.BackendS3},
			wantErr: "S3_BUCKET",
		},
		{
			name:    "unknown",
			cfg:     config.StoreConfig{Backend: "mongo"},
			wantErr: "unknown store backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFromConfig(context.Background(), tt.cfg, logger)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { s.Close() })
			assert.IsType(t, tt.want, s)
		})
	}
}

func TestNewFromConfig_S3(t *testing.T) {
	cfg := config.StoreConfig{
		Backend: config.BackendS3,
		Timeout: time.Second,
		S3: config.S3Config{
			Bucket:          "club",
			RootPath:        "books.json",
			Region:          "eu-central-1",
			Endpoint:        "http://localhost:9000",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		},
	}

	s, err := NewFromConfig(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	doc, ok := s.(*Document)
	require.True(t, ok)
	assert.Equal(t, "club", doc.bucket)
	assert.Equal(t, "books.json", doc.key)
}
