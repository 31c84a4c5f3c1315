package book

import (
	"slices"
	"strconv"
	"time"
)

// Table is the display-ready book list: column labels and row-major values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Storage order of the projected fields.
const (
	colPosition = iota
	colAuthor
	colTitle
	colGenre
	colContributor
	colDate
	colReview
	columnCount
)

var columnLabels = [columnCount]string{
	colPosition:    "Nr",
	colAuthor:      "Autor",
	colTitle:       "Tytuł",
	colGenre:       "Dziedzina",
	colContributor: "Wrzucający",
	colDate:        "Data",
	colReview:      "Recenzja",
}

// displayOrder maps display columns to storage columns.
var displayOrder = [columnCount]int{
	colPosition, colTitle, colAuthor, colGenre, colDate, colContributor, colReview,
}

// DisplayColumns returns the column labels in display order.
func DisplayColumns() []string {
	out := make([]string, 0, columnCount)
	for _, c := range displayOrder {
		out = append(out, columnLabels[c])
	}
	return out
}

type displayRow struct {
	cells [columnCount]string
	date  time.Time
}

// PrepareForDisplay turns the raw record set into the book table. Missing
// values become Placeholder, titles are de-duplicated keeping the first
// occurrence, dates on or before Epoch are blanked and rows are sorted by
// title with c.
func PrepareForDisplay(records []Book, c Collator) Table {
	rows := make([]displayRow, 0, len(records))
	for _, b := range records {
		rows = append(rows, project(b))
	}
	rows = dedupByTitle(rows)
	for i := range rows {
		if !rows[i].date.After(Epoch) {
			rows[i].cells[colDate] = Placeholder
		}
	}
	slices.SortStableFunc(rows, func(a, b displayRow) int {
		return c.Compare(a.cells[colTitle], b.cells[colTitle])
	})

	out := Table{Columns: DisplayColumns(), Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		values := make([]string, 0, columnCount)
		for _, col := range displayOrder {
			values = append(values, r.cells[col])
		}
		out.Rows = append(out.Rows, values)
	}
	return out
}

func project(b Book) displayRow {
	r := displayRow{date: b.UploadedAt}
	if b.Position > 0 {
		r.cells[colPosition] = strconv.Itoa(b.Position)
	}
	r.cells[colAuthor] = b.Author
	r.cells[colTitle] = b.Title
	r.cells[colGenre] = b.Genre
	r.cells[colContributor] = b.Contributor
	if !b.UploadedAt.IsZero() {
		r.cells[colDate] = b.UploadedAt.Format(time.DateOnly)
	}
	r.cells[colReview] = b.Review
	for i, v := range r.cells {
		if v == "" {
			r.cells[i] = Placeholder
		}
	}
	return r
}

func dedupByTitle(rows []displayRow) []displayRow {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, r := range rows {
		title := r.cells[colTitle]
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, r)
	}
	return out
}
