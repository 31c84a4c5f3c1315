package store

import (
	"context"
	"fmt"
	"log/slog"

	"bookclub/internal/config"
)

// NewFromConfig opens the store selected by cfg.Backend.
func NewFromConfig(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return NewMemory(), nil
	case config.BackendPostgres:
		s, err := OpenPostgres(ctx, cfg.DSN, cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("postgres (%s): %w", config.RedactDSN(cfg.DSN), err)
		}
		logger.Info("database connection OK", slog.String("backend", cfg.Backend))
		return s, nil
	case config.BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite store requires SQLITE_PATH to be set")
		}
		s, err := OpenSQLite(cfg.SQLitePath, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Info("sqlite store opened", slog.String("path", cfg.SQLitePath))
		return s, nil
	case config.BackendXLSX:
		if cfg.XLSXPath == "" {
			return nil, fmt.Errorf("xlsx store requires XLSX_PATH to be set")
		}
		s, err := OpenXLSX(cfg.XLSXPath, cfg.XLSXSheet)
		if err != nil {
			return nil, err
		}
		logger.Info("spreadsheet store opened", slog.String("path", cfg.XLSXPath), slog.String("sheet", cfg.XLSXSheet))
		return s, nil
	case config.BackendS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 store requires S3_BUCKET to be set")
		}
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info("document store configured",
			slog.String("bucket", cfg.S3.Bucket),
			slog.String("root_path", cfg.S3.RootPath),
		)
		return NewDocument(client, cfg.S3.Bucket, cfg.S3.RootPath, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
