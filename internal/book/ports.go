package book

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for the book record store. The store is
// append-only.
type Repository interface {
	// FetchAll returns every record in store order.
	FetchAll(ctx context.Context) ([]Book, error)
	Append(ctx context.Context, b Book) error
}

// Clock abstracts time retrieval so half-year and upload dates are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
