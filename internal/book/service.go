package book

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Service provides the book list views and the submission flow. It keeps no
// record state between calls: every operation reloads the full record set.
type Service struct {
	repo     Repository
	collator Collator
	clock    Clock
	members  []string

	// submitMu serializes the duplicate check and the append within this
	// process. Concurrent submissions from separate processes can still race.
	submitMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithCollator sets the title and name ordering. Defaults to Polish.
func WithCollator(c Collator) Option {
	return func(s *Service) { s.collator = c }
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithMembers adds members who can be picked before their first submission.
func WithMembers(names []string) Option {
	return func(s *Service) { s.members = append([]string(nil), names...) }
}

// NewService creates a new book service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, clock: RealClock{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.collator == nil {
		s.collator = NewPolishCollator()
	}
	return s
}

// FormOptions are the choices offered by the submission form.
type FormOptions struct {
	Members []string
	Genres  []string
}

// Table returns the full book table.
func (s *Service) Table(ctx context.Context) (Table, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("fetch books: %w", err)
	}
	return PrepareForDisplay(records, s.collator), nil
}

// Digest returns the newest books and the contributors to remind.
func (s *Service) Digest(ctx context.Context) (Digest, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("fetch books: %w", err)
	}
	return Digest{
		Newest: NewestBooks(records, NewestLimit),
		ToWarn: UsersToWarn(records, s.clock.Now(), s.collator),
	}, nil
}

// FormOptions returns the current member and genre lists.
func (s *Service) FormOptions(ctx context.Context) (FormOptions, error) {
	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return FormOptions{}, fmt.Errorf("fetch books: %w", err)
	}
	return s.formOptions(records), nil
}

func (s *Service) formOptions(records []Book) FormOptions {
	return FormOptions{
		Members: Members(records, s.members, s.collator),
		Genres:  Genres(records, s.collator),
	}
}

// Submit validates f and appends it as a new record dated today. It returns
// a *ValidationError for invalid input and ErrDuplicate when the (author,
// title) pair is already stored.
func (s *Service) Submit(ctx context.Context, f Form) (Book, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return Book{}, fmt.Errorf("fetch books: %w", err)
	}

	opts := s.formOptions(records)
	if verr := f.Validate(opts.Members); verr != nil {
		return Book{}, verr
	}

	b := f.Book()
	if contains(records, b) {
		return Book{}, ErrDuplicate
	}
	b.UploadedAt = DateOf(s.clock.Now())

	if err := s.repo.Append(ctx, b); err != nil {
		return Book{}, fmt.Errorf("append book: %w", err)
	}
	b.Position = len(records) + 1
	return b, nil
}

// Import appends records that are not already stored, keeping their dates.
// Records without a title are skipped. It returns how many were added.
func (s *Service) Import(ctx context.Context, incoming []Book) (int, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	records, err := s.repo.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch books: %w", err)
	}

	added := 0
	for _, b := range incoming {
		if b.Title == "" || contains(records, b) {
			continue
		}
		b.Position = 0
		if err := s.repo.Append(ctx, b); err != nil {
			return added, fmt.Errorf("append %q: %w", b.Title, err)
		}
		records = append(records, b)
		added++
	}
	return added, nil
}

func contains(records []Book, b Book) bool {
	for _, r := range records {
		if r.SameEntry(b) {
			return true
		}
	}
	return false
}

// IsValidation reports whether err carries field validation errors.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
