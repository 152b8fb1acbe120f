package fetch

//go:generate mockgen -source=fetch.go -destination=mocks/mocks.go -package=mocks Fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("hello"))
		case "/echo":
			user, pass, _ := r.BasicAuth()
			_, _ = w.Write([]byte(r.UserAgent() + "|" + user + ":" + pass + "|" + r.Header.Get("Accept")))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("returns body and content type", func(t *testing.T) {
		doc, err := New(time.Second).Get(ctx, srv.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(doc.Body))
		assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
		assert.Equal(t, srv.URL+"/ok", doc.URL)
	})

	t.Run("request options and user agent are applied", func(t *testing.T) {
		c := New(time.Second, WithUserAgent("screener-test"))
		doc, err := c.Get(ctx, srv.URL+"/echo", WithBasicAuth("svc", "secret"), WithHeader("Accept", "application/json"))
		require.NoError(t, err)
		assert.Equal(t, "screener-test|svc:secret|application/json", string(doc.Body))
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		_, err := New(time.Second).Get(ctx, srv.URL+"/missing")
		var status *StatusError
		require.True(t, errors.As(err, &status))
		assert.Equal(t, http.StatusNotFound, status.StatusCode)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		_, err := New(time.Second, WithMaxBytes(16)).Get(ctx, srv.URL+"/big")
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("rate limiter honours context", func(t *testing.T) {
		c := New(time.Second, WithRateLimit(0.001, 1))
		_, err := c.Get(ctx, srv.URL+"/ok")
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = c.Get(short, srv.URL+"/ok")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit wait")
	})
}

func TestDecodeText(t *testing.T) {
	t.Run("declared charset is converted", func(t *testing.T) {
		doc := &Document{ContentType: "text/html; charset=windows-1252", Body: []byte("Stra\xdfe")}
		assert.Equal(t, "Straße", DecodeText(doc))
	})

	t.Run("utf-8 passes through", func(t *testing.T) {
		doc := &Document{ContentType: "text/html; charset=utf-8", Body: []byte("Müller")}
		assert.Equal(t, "Müller", DecodeText(doc))
	})
}
