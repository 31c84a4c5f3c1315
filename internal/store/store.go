// Package store implements the book record store backends.
package store

import (
	"context"
	"errors"
	"time"

	"bookclub/internal/book"
)

// ErrConflict is returned when a concurrent writer changed the store between
// read and write.
var ErrConflict = errors.New("store changed concurrently")

// Store is a book.Repository owning an external handle. It is created once at
// startup and closed on shutdown.
type Store interface {
	book.Repository
	Close() error
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// positioned assigns 1-based store positions in slice order.
func positioned(records []book.Book) []book.Book {
	for i := range records {
		records[i].Position = i + 1
	}
	return records
}

// nullableSerial is the SQL value of an upload date: NULL when absent.
func nullableSerial(t time.Time) any {
	if n := book.ToSerial(t); n > 0 {
		return n
	}
	return nil
}
