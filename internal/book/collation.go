package book

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders strings for display.
type Collator interface {
	Compare(a, b string) int
}

// CollatorFunc adapts a comparison function to Collator.
type CollatorFunc func(a, b string) int

// Compare calls f(a, b).
func (f CollatorFunc) Compare(a, b string) int { return f(a, b) }

// Bytewise compares by code point. Only useful in tests.
var Bytewise Collator = CollatorFunc(strings.Compare)

// LocaleCollator wraps an x/text collator. collate.Collator keeps scratch
// buffers, so calls are serialized.
type LocaleCollator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator returns a collator for the given language.
func NewCollator(tag language.Tag) *LocaleCollator {
	return &LocaleCollator{c: collate.New(tag)}
}

// NewPolishCollator returns the collator used by the book list.
func NewPolishCollator() *LocaleCollator {
	return NewCollator(language.Polish)
}

// Compare orders a and b by the collation rules of the language.
func (l *LocaleCollator) Compare(a, b string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.CompareString(a, b)
}
