package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "books.json", cfg.Store.S3.RootPath)
	assert.Equal(t, 2*time.Hour, cfg.FormTokenTTL)
	assert.Equal(t, int64(64<<10), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.Members)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("APP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("STORE_BACKEND", "xlsx")
	t.Setenv("XLSX_PATH", "/tmp/books.xlsx")
	t.Setenv("BOOKCLUB_MEMBERS", " Anna, Jan ,,Zoja")
	t.Setenv("STORE_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, BackendXLSX, cfg.Store.Backend)
	assert.Equal(t, "/tmp/books.xlsx", cfg.Store.XLSXPath)
	assert.Equal(t, []string{"Anna", "Jan", "Zoja"}, cfg.Members)
	assert.Equal(t, 750*time.Millisecond, cfg.Store.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "SECRET_KEY")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "s3cret")
		t.Setenv("STORE_BACKEND", "mongo")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown backend")
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "s3cret")
		t.Setenv("STORE_BACKEND", "s3")
		t.Setenv("S3_BUCKET", "")
		_, err := Load()
		assert.ErrorContains(t, err, "S3_BUCKET")
	})

	t.Run("half credentials", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "s3cret")
		t.Setenv("STORE_BACKEND", "s3")
		t.Setenv("S3_BUCKET", "club")
		t.Setenv("S3_ACCESS_KEY_ID", "AKIA")
		t.Setenv("S3_SECRET_ACCESS_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "must be set together")
	})

	t.Run("bad values", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "s3cret")
		t.Setenv("LOG_LEVEL", "loud")
		t.Setenv("RATE_LIMIT_BURST", "many")
		_, err := Load()
		assert.ErrorContains(t, err, "LOG_LEVEL")
		assert.ErrorContains(t, err, "RATE_LIMIT_BURST")
	})
}

func TestLoadTool_SecretOptional(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/seed.db")

	cfg, err := LoadTool()
	require.NoError(t, err)
	assert.Empty(t, cfg.SecretKey)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/seed.db", cfg.Store.SQLitePath)

	t.Setenv("STORE_BACKEND", "ftp")
	_, err = LoadTool()
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	if err := os.WriteFile(p, []byte("DB_DSN=from_file\nBOOKCLUB_TEST_ONLY=from_file\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_DSN", "from_env")
	t.Cleanup(func() { _ = os.Unsetenv("BOOKCLUB_TEST_ONLY") })

	t.Chdir(tmp)

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "from_file", os.Getenv("BOOKCLUB_TEST_ONLY"))
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***@db:5432/club", RedactDSN("postgres://user:pw@db:5432/club"))
	assert.Equal(t, "bookclub.db", RedactDSN("bookclub.db"))
}
