package store

import (
	"context"
	"slices"
	"sync"

	"bookclub/internal/book"
)

// Memory is an in-memory store. Dates go through the day-serial encoding so
// it behaves like the persistent backends.
// This implementation is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	books []book.Book
}

// NewMemory creates a store holding seed in order.
func NewMemory(seed ...book.Book) *Memory {
	m := &Memory{}
	for _, b := range seed {
		m.books = append(m.books, normalize(b))
	}
	return m
}

// FetchAll returns a copy of every record in insertion order.
func (m *Memory) FetchAll(ctx context.Context) ([]book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return positioned(slices.Clone(m.books)), nil
}

// Append adds b at the end of the store.
func (m *Memory) Append(ctx context.Context, b book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books = append(m.books, normalize(b))
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.books)
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func normalize(b book.Book) book.Book {
	b.Position = 0
	b.UploadedAt = book.FromSerial(book.ToSerial(b.UploadedAt))
	return b
}
