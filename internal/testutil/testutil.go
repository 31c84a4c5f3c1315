package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"bookclub/internal/book"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Books returns a small record set in store order. Anna last contributed in
// the first half of 2024, Jan in the second; one record is undated.
func Books() []book.Book {
	return []book.Book{
		{Author: "Bolesław Prus", Title: "Lalka", Genre: "powieść", Contributor: "Anna", UploadedAt: date(2024, time.March, 10)},
		{Author: "Henryk Sienkiewicz", Title: "Potop", Genre: "powieść", Contributor: "Jan", UploadedAt: date(2024, time.July, 20)},
		{Author: "Stanisław Lem", Title: "Solaris", Genre: "fantastyka", Contributor: "Jan", Review: "https://example.com/solaris"},
		{Author: "Olga Tokarczuk", Title: "Bieguni", Genre: "powieść", Contributor: "Anna", UploadedAt: date(2023, time.November, 2)},
	}
}

// TestClock is a fixed book.Clock.
type TestClock time.Time

func (c TestClock) Now() time.Time { return time.Time(c) }

// NewFormRequest creates a url-encoded POST request for testing
func NewFormRequest(path string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// ParseHTML parses the recorded response body as an HTML document
func ParseHTML(w *httptest.ResponseRecorder) (*goquery.Document, error) {
	result := w.Result()
	defer result.Body.Close()
	return goquery.NewDocumentFromReader(result.Body)
}

// AssertResponseCode checks if the response code matches expected
func AssertResponseCode(t interface {
	Errorf(format string, args ...any)
}, got, want int) {
	if got != want {
		t.Errorf("got status code %d, want %d", got, want)
	}
}
