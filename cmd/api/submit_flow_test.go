package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookclub/internal/book"
	"bookclub/internal/platform/crypto"
	"bookclub/internal/store"
	"bookclub/internal/testutil"
	"bookclub/internal/web"
)

func TestSubmitFlow(t *testing.T) {
	repo := store.NewMemory(testutil.Books()...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pages, err := web.NewRenderer(logger)
	require.NoError(t, err)
	service := book.NewService(repo, book.WithClock(testutil.TestClock(time.Date(2024, time.August, 1, 12, 0, 0, 0, time.UTC))))
	router := newRouter(book.NewHTTPHandler(service, pages, crypto.NewFormSigner("test-secret", time.Hour), logger), repo)

	// Anna has nothing this half-year yet.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	doc, err := testutil.ParseHTML(w)
	require.NoError(t, err)
	assert.Equal(t, "Anna", doc.Find("#reminders li").Text())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/add", nil))
	doc, err = testutil.ParseHTML(w)
	require.NoError(t, err)
	token, ok := doc.Find(`input[name="token"]`).Attr("value")
	require.True(t, ok)
	assert.Equal(t, 2, doc.Find(`select[name="contributor"] option`).Length())

	values := url.Values{
		"token":       {token},
		"author":      {"Szymborska, Wisława"},
		"title":       {"Wiersze wybrane"},
		"genre":       {"poezja"},
		"contributor": {"Anna"},
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.NewFormRequest("/add", values))
	testutil.AssertResponseCode(t, w.Code, http.StatusSeeOther)
	assert.Equal(t, 5, repo.Len())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	doc, err = testutil.ParseHTML(w)
	require.NoError(t, err)
	assert.Equal(t, "Wiersze wybrane", doc.Find("#newest li .title").First().Text())
	assert.Equal(t, 0, doc.Find("#reminders li").Length())

	// Same author and title again.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.NewFormRequest("/add", values))
	testutil.AssertResponseCode(t, w.Code, http.StatusConflict)
	doc, err = testutil.ParseHTML(w)
	require.NoError(t, err)
	assert.Equal(t, book.MsgDuplicate, doc.Find("#info").Text())
	assert.Equal(t, 5, repo.Len())

	values.Set("token", "forged")
	values.Set("title", "Inny tytuł")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.NewFormRequest("/add", values))
	testutil.AssertResponseCode(t, w.Code, http.StatusBadRequest)
	assert.Equal(t, 5, repo.Len())
}
