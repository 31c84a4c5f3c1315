package main

import (
	"context"
	"log/slog"

	"bookclub/internal/book"
	"bookclub/internal/platform/openlibrary"
)

type titleLookup interface {
	Lookup(ctx context.Context, title string) (openlibrary.Match, bool, error)
}

// enrich fills in missing authors and genres in place. Lookup failures are
// logged and skipped; only context cancellation stops the pass.
func enrich(ctx context.Context, records []book.Book, lookup titleLookup, logger *slog.Logger) (int, error) {
	filled := 0
	for i := range records {
		b := &records[i]
		if b.Title == "" || (b.Author != "" && b.Genre != "") {
			continue
		}
		m, ok, err := lookup.Lookup(ctx, b.Title)
		if err != nil {
			if ctx.Err() != nil {
				return filled, ctx.Err()
			}
			logger.Warn("lookup failed", slog.String("title", b.Title), slog.String("error", err.Error()))
			continue
		}
		if !ok {
			continue
		}
		changed := false
		if b.Author == "" && m.Author != "" {
			b.Author = m.Author
			changed = true
		}
		if b.Genre == "" && m.Genre != "" {
			b.Genre = m.Genre
			changed = true
		}
		if changed {
			filled++
		}
	}
	return filled, nil
}
