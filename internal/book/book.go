package book

import (
	"errors"
	"time"
)

// Placeholder is displayed wherever a record has no value.
const Placeholder = "brak"

// ErrDuplicate is returned when the (author, title) pair is already stored.
var ErrDuplicate = errors.New("book already in the database")

// Book represents one row of the shared book list.
type Book struct {
	// Position is the 1-based store order, assigned by the repository on read.
	Position    int       `json:"-"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	Contributor string    `json:"contributor"`
	UploadedAt  time.Time `json:"-"`
	Review      string    `json:"review"`
}

// HasDate reports whether the record carries an upload date after the epoch.
func (b Book) HasDate() bool {
	return !b.UploadedAt.IsZero() && b.UploadedAt.After(Epoch)
}

// SameEntry reports whether two records share the duplicate-submission key.
// Comparison is verbatim: no case folding, no trimming.
func (b Book) SameEntry(other Book) bool {
	return b.Author == other.Author && b.Title == other.Title
}

// Headline is a (title, author) pair shown in the newest-books digest.
type Headline struct {
	Title  string
	Author string
}

// Digest is the home page content.
type Digest struct {
	Newest []Headline
	ToWarn []string
}
