package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookclub/internal/book"
)

// Postgres stores books in a PostgreSQL table through pgx.
type Postgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewPostgres wraps an open pool. Every query is bounded by timeout.
func NewPostgres(db *pgxpool.Pool, timeout time.Duration) *Postgres {
	return &Postgres{db: db, timeout: timeout}
}

// OpenPostgres creates a pool for dsn and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgres(pool, timeout), nil
}

// Pool exposes the underlying pool, for migrations.
func (r *Postgres) Pool() *pgxpool.Pool { return r.db }

// FetchAll returns every record in store order.
func (r *Postgres) FetchAll(ctx context.Context) ([]book.Book, error) {
	const query = `
		SELECT author, title, genre, contributor, upload_serial, review
		FROM books
		ORDER BY position`

	timeoutCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var out []book.Book
	for rows.Next() {
		var (
			b      book.Book
			serial *int
		)
		if err := rows.Scan(&b.Author, &b.Title, &b.Genre, &b.Contributor, &serial, &b.Review); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		if serial != nil {
			b.UploadedAt = book.FromSerial(*serial)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}
	return positioned(out), nil
}

// Append inserts b as the newest row.
func (r *Postgres) Append(ctx context.Context, b book.Book) error {
	const sql = `
		INSERT INTO books (author, title, genre, contributor, upload_serial, review)
		VALUES ($1, $2, $3, $4, $5, $6)`

	timeoutCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql,
		b.Author, b.Title, b.Genre, b.Contributor, nullableSerial(b.UploadedAt), b.Review,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Close closes the pool.
func (r *Postgres) Close() error {
	r.db.Close()
	return nil
}
