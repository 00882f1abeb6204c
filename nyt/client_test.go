package nyt_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	"github.com/dev-mohitbeniwal/bookclub/nyt"
)

const fictionBody = `{
  "status": "OK",
  "num_results": 2,
  "results": {
    "list_name": "Hardcover Fiction",
    "list_name_encoded": "hardcover-fiction",
    "published_date": "2024-06-09",
    "books": [
      {"rank": 1, "title": "THE WOMEN", "author": "Kristin Hannah", "primary_isbn13": "9781250178633", "primary_isbn10": "1250178630"},
      {"rank": 2, "title": "FOURTH WING", "author": "Rebecca Yarros", "primary_isbn13": "9781649374042"}
    ]
  }
}`

func TestClient_CurrentList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("api-key")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(fictionBody))
		}))
		defer srv.Close()

		client := nyt.NewClient(srv.URL+"/svc/books/v3/", "k3y")
		results, err := client.CurrentList(context.Background(), "hardcover-fiction")
		require.NoError(t, err)

		assert.Equal(t, "/svc/books/v3/lists/current/hardcover-fiction.json", gotPath)
		assert.Equal(t, "k3y", gotKey)
		require.Len(t, results.Books, 2)
		assert.Equal(t, "9781250178633", results.Books[0].PrimaryISBN13)
	})

	t.Run("ServerError_Unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := nyt.NewClient(srv.URL, "k").CurrentList(context.Background(), "science")
		assert.ErrorIs(t, err, bookclub_errors.ErrUpstreamUnavailable)
	})

	t.Run("NotFound_InvalidListName", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := nyt.NewClient(srv.URL, "k").CurrentList(context.Background(), "no-such-list")
		assert.ErrorIs(t, err, bookclub_errors.ErrInvalidListName)
	})

	t.Run("NetworkError_KeyRedacted", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := nyt.NewClient(url, "super-secret").CurrentList(context.Background(), "science")
		require.Error(t, err)
		assert.ErrorIs(t, err, bookclub_errors.ErrUpstreamUnavailable)
		assert.NotContains(t, err.Error(), "super-secret")
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"OK","results":{"books":[]}}`))
		}))
		defer srv.Close()

		_, err := nyt.NewClient(srv.URL, "k").CurrentList(context.Background(), "science")
		assert.ErrorIs(t, err, bookclub_errors.ErrMalformedResponse)
	})
}

func TestParseListResponse(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"NotJSON", `<html>`, "$"},
		{"MissingResults", `{"status":"OK"}`, "results"},
		{"MissingBooks", `{"results":{"list_name":"x"}}`, "results.books"},
		{"EmptyBooks", `{"results":{"books":[]}}`, "results.books"},
		{"BookWithoutTitle", `{"results":{"books":[{"rank":1}]}}`, "results.books[0].title"},
		{"BooksNotArray", `{"results":{"books":{"rank":1}}}`, "$"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := nyt.ParseListResponse([]byte(tc.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, bookclub_errors.ErrMalformedResponse)

			var shapeErr *nyt.ShapeError
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, tc.field, shapeErr.Field)
		})
	}

	t.Run("WellFormed", func(t *testing.T) {
		results, err := nyt.ParseListResponse([]byte(fictionBody))
		require.NoError(t, err)
		assert.Equal(t, "Hardcover Fiction", results.ListName)
		assert.True(t, strings.HasPrefix(results.Books[1].Title, "FOURTH"))
	})
}
