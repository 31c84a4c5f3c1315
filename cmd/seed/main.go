package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"bookclub/internal/book"
	"bookclub/internal/config"
	"bookclub/internal/platform/openlibrary"
	"bookclub/internal/store"
)

func main() {
	var (
		path  = flag.String("xlsx", "static/data/bookdata.xlsx", "Spreadsheet to import")
		sheet = flag.String("sheet", "Sheet1", "Sheet holding the book list")

		enrichMissing  = flag.Bool("enrich", false, "Fill missing authors and genres from Open Library")
		openLibraryURL = flag.String("openlibrary-url", openlibrary.DefaultBaseURL, "Open Library base URL")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.LoadTool()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := config.SetupLogger(cfg)

	ctx := context.Background()

	records, err := store.ReadXLSX(*path, *sheet)
	if err != nil {
		logger.Error("failed to read spreadsheet", slog.String("path", *path), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("spreadsheet loaded", slog.String("path", *path), slog.Int("records", len(records)))

	if *enrichMissing {
		client := openlibrary.NewClient(*openLibraryURL, "bookclub-seed/1.0", 1, 3)
		filled, err := enrich(ctx, records, client, logger)
		if err != nil {
			logger.Error("enrichment stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("records enriched", slog.Int("filled", filled))
	}

	target, err := store.NewFromConfig(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", slog.String("backend", cfg.Store.Backend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer target.Close()

	added, err := book.NewService(target).Import(ctx, records)
	if err != nil {
		logger.Error("import stopped", slog.Int("added", added), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import finished",
		slog.String("backend", cfg.Store.Backend),
		slog.Int("added", added),
		slog.Int("skipped", len(records)-added),
	)
}
