package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"bookclub/internal/book"
)

// SQLite stores books in a local file through modernc.org/sqlite.
type SQLite struct {
	db      *sql.DB
	timeout time.Duration
}

// OpenSQLite opens the database file and applies the embedded migrations.
func OpenSQLite(path string, timeout time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := Migrate(db, "sqlite", MigrateUp, ""); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db, timeout: timeout}, nil
}

// DB exposes the underlying handle, for migrations.
func (s *SQLite) DB() *sql.DB { return s.db }

// FetchAll returns every record in store order.
func (s *SQLite) FetchAll(ctx context.Context) ([]book.Book, error) {
	timeoutCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.db.QueryContext(timeoutCtx, `
		SELECT author, title, genre, contributor, upload_serial, review
		FROM books
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var out []book.Book
	for rows.Next() {
		var (
			b      book.Book
			serial sql.NullInt64
		)
		if err := rows.Scan(&b.Author, &b.Title, &b.Genre, &b.Contributor, &serial, &b.Review); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if serial.Valid {
			b.UploadedAt = book.FromSerial(int(serial.Int64))
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	return positioned(out), nil
}

// Append inserts b as the newest row.
func (s *SQLite) Append(ctx context.Context, b book.Book) error {
	timeoutCtx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.db.ExecContext(timeoutCtx, `
		INSERT INTO books (author, title, genre, contributor, upload_serial, review)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.Author, b.Title, b.Genre, b.Contributor, nullableSerial(b.UploadedAt), b.Review,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Close closes the database file.
func (s *SQLite) Close() error { return s.db.Close() }
