package book

import (
	"slices"
	"time"
)

// NewestLimit is the size of the newest-books digest.
const NewestLimit = 5

// HalfYearStart returns Jan 1 or Jul 1 of now's year, whichever opens the
// half-year now falls in.
func HalfYearStart(now time.Time) time.Time {
	month := time.January
	if now.Month() > time.June {
		month = time.July
	}
	return time.Date(now.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// UsersToWarn returns every contributor who has books in the store but none
// dated on or after the start of the current half-year. Records without a
// contributor are ignored.
func UsersToWarn(records []Book, now time.Time, c Collator) []string {
	start := HalfYearStart(now)
	all := make(map[string]struct{})
	active := make(map[string]struct{})
	for _, b := range records {
		if b.Contributor == "" {
			continue
		}
		all[b.Contributor] = struct{}{}
		if b.HasDate() && !DateOf(b.UploadedAt).Before(start) {
			active[b.Contributor] = struct{}{}
		}
	}

	out := make([]string, 0, len(all))
	for name := range all {
		if _, ok := active[name]; !ok {
			out = append(out, name)
		}
	}
	slices.SortFunc(out, c.Compare)
	return out
}

// NewestBooks returns up to n records ordered by upload date, newest first.
// Undated records sort last; ties keep store order.
func NewestBooks(records []Book, n int) []Headline {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Book) int {
		switch {
		case a.HasDate() && !b.HasDate():
			return -1
		case !a.HasDate() && b.HasDate():
			return 1
		case !a.HasDate():
			return 0
		}
		return b.UploadedAt.Compare(a.UploadedAt)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Headline, 0, n)
	for _, b := range sorted[:n] {
		out = append(out, Headline{Title: b.Title, Author: b.Author})
	}
	return out
}

// Members lists the distinct contributors, merged with extra, sorted with c.
func Members(records []Book, extra []string, c Collator) []string {
	values := make([]string, 0, len(records)+len(extra))
	for _, b := range records {
		values = append(values, b.Contributor)
	}
	values = append(values, extra...)
	return distinctSorted(values, c)
}

// Genres lists the distinct non-empty genres, sorted with c.
func Genres(records []Book, c Collator) []string {
	values := make([]string, 0, len(records))
	for _, b := range records {
		values = append(values, b.Genre)
	}
	return distinctSorted(values, c)
}

func distinctSorted(values []string, c Collator) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.SortFunc(out, c.Compare)
	return out
}
