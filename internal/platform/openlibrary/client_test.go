package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries int) *Client {
	c := NewClient(url, "bookclub-test", 1000, retries)
	c.backoff = time.Millisecond
	return c
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "Solaris", r.URL.Query().Get("title"))
		assert.Equal(t, "bookclub-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL1","title":"Solaris","author_name":["Stanisław Lem"],"subject":["Science Fiction","Space"]}]}`))
	}))
	defer srv.Close()

	m, ok, err := newTestClient(srv.URL, 0).Lookup(context.Background(), "Solaris")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Match{Author: "Stanisław Lem", Genre: "science fiction"}, m)
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"numFound":0,"docs":[]}`))
	}))
	defer srv.Close()

	_, ok, err := newTestClient(srv.URL, 0).Lookup(context.Background(), "Nieznana")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"numFound":0,"docs":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).SearchTitle(context.Background(), "Lalka", 1)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).SearchTitle(context.Background(), "Lalka", 1)

	assert.ErrorContains(t, err, "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).SearchTitle(context.Background(), "Lalka", 1)

	assert.ErrorContains(t, err, "after 2 retries")
}
