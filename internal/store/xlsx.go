package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"bookclub/internal/book"
)

var xlsxHeader = []string{
	fieldPosition, fieldAuthor, fieldTitle, fieldGenre, fieldContributor, fieldDate, fieldReview,
}

// XLSX keeps the books in one sheet of a spreadsheet file. The first row is
// the header; columns are located by header name. Dates are numeric day
// serials.
type XLSX struct {
	path  string
	sheet string

	mu sync.Mutex
}

// OpenXLSX uses the spreadsheet at path, creating it with a header row when
// the file does not exist.
func OpenXLSX(path, sheet string) (*XLSX, error) {
	x := &XLSX{path: path, sheet: sheet}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := x.create(); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return x, nil
}

func (x *XLSX) create() error {
	f := excelize.NewFile()
	defer f.Close()

	if x.sheet != "Sheet1" {
		idx, err := f.NewSheet(x.sheet)
		if err != nil {
			return fmt.Errorf("create sheet %s: %w", x.sheet, err)
		}
		f.SetActiveSheet(idx)
	}
	if err := f.SetSheetRow(x.sheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("save %s: %w", x.path, err)
	}
	return nil
}

// FetchAll returns every data row below the header, top to bottom.
func (x *XLSX) FetchAll(ctx context.Context) ([]book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", x.path, err)
	}
	defer f.Close()

	rows, err := x.rows(f)
	if err != nil {
		return nil, err
	}
	return decodeSheet(rows)
}

// Append writes b to the first row after the last data row and saves the file.
func (x *XLSX) Append(ctx context.Context, b book.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", x.path, err)
	}
	defer f.Close()

	rows, err := x.rows(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		if err := f.SetSheetRow(x.sheet, "A1", &xlsxHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		rows = [][]string{xlsxHeader}
	}
	cols := headerIndex(rows[0])
	if _, ok := cols[fieldTitle]; !ok {
		return fmt.Errorf("sheet %s: missing %q column", x.sheet, fieldTitle)
	}

	width := 0
	for _, i := range cols {
		width = max(width, i+1)
	}
	values := make([]any, width)
	set := func(name string, v any) {
		if i, ok := cols[name]; ok {
			values[i] = v
		}
	}
	set(fieldPosition, len(rows))
	set(fieldAuthor, b.Author)
	set(fieldTitle, b.Title)
	set(fieldGenre, b.Genre)
	set(fieldContributor, b.Contributor)
	if n := book.ToSerial(b.UploadedAt); n > 0 {
		set(fieldDate, n)
	}
	set(fieldReview, b.Review)

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(x.sheet, cell, &values); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", x.path, err)
	}
	return nil
}

// Close is a no-op; the file is reopened on every call.
func (x *XLSX) Close() error { return nil }

func (x *XLSX) rows(f *excelize.File) ([][]string, error) {
	rows, err := f.GetRows(x.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", x.sheet, err)
	}
	return rows, nil
}

// ReadXLSX loads the records of a spreadsheet without keeping a handle.
func ReadXLSX(path, sheet string) ([]book.Book, error) {
	x := &XLSX{path: path, sheet: sheet}
	return x.FetchAll(context.Background())
}

func decodeSheet(rows [][]string) ([]book.Book, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := headerIndex(rows[0])
	if _, ok := cols[fieldTitle]; !ok {
		return nil, fmt.Errorf("missing %q column", fieldTitle)
	}

	out := make([]book.Book, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		if isBlankRow(row) {
			continue
		}
		out = append(out, book.Book{
			Author:      get(fieldAuthor),
			Title:       get(fieldTitle),
			Genre:       get(fieldGenre),
			Contributor: get(fieldContributor),
			UploadedAt:  book.ParseSerial(get(fieldDate)),
			Review:      get(fieldReview),
		})
	}
	return positioned(out), nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}
	return cols
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
