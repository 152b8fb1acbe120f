package roster

//go:generate mockgen -source=roster.go -destination=mocks/mocks.go -package=mocks Source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/platform/fetch/mocks"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/sources"
)

var acmeBeta = []models.BusinessEntity{
	{Issuer: "Acme Token", Individuals: []string{"Jane Doe", "Ivan Petrov"}},
	{Issuer: "Beta Coin", Individuals: []string{"Jane Doe", "Ivan Petrov"}},
}

func TestEntities(t *testing.T) {
	assert.Equal(t, acmeBeta, Entities("Acme Token, Beta Coin", "Jane Doe, Ivan Petrov"))

	t.Run("empty individuals cell", func(t *testing.T) {
		got := Entities("Acme Token", "")
		require.Len(t, got, 1)
		assert.Equal(t, []string{}, got[0].Individuals)
	})

	t.Run("entities do not share individual slices", func(t *testing.T) {
		got := Entities("A, B", "X")
		got[0].Individuals[0] = "changed"
		assert.Equal(t, "X", got[1].Individuals[0])
	})
}

func TestFromRow(t *testing.T) {
	t.Run("columns found by name", func(t *testing.T) {
		got, err := FromRow(
			[]string{"Notes", " Key Individuals ", "Token Issuer"},
			[]string{"n/a", "Jane Doe", "Acme Token"},
		)
		require.NoError(t, err)
		assert.Equal(t, []models.BusinessEntity{{Issuer: "Acme Token", Individuals: []string{"Jane Doe"}}}, got)
	})

	t.Run("missing column is a fatal roster format error", func(t *testing.T) {
		_, err := FromRow([]string{"Token Issuer"}, []string{"Acme"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
		assert.True(t, sources.IsFatal(err))
		assert.Contains(t, err.Error(), IndividualsColumn)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := FromRow([]string{"Token Issuer", "Key Individuals"}, []string{"Acme"})
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})
}

func TestFromHTML(t *testing.T) {
	t.Run("first row without th is the header", func(t *testing.T) {
		markup := `<table><tr><td>Token Issuer</td><td>Key Individuals</td></tr>` +
			`<tr><td>Acme Token, Beta Coin</td><td>Jane Doe, Ivan Petrov</td></tr></table>`
		got, err := FromHTML(markup)
		require.NoError(t, err)
		assert.Equal(t, acmeBeta, got)
	})

	t.Run("no table", func(t *testing.T) {
		_, err := FromHTML("<p>nothing here</p>")
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})

	t.Run("header only", func(t *testing.T) {
		_, err := FromHTML("<table><tr><th>Token Issuer</th><th>Key Individuals</th></tr></table>")
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})
}

func TestConfluence(t *testing.T) {
	page, err := os.ReadFile("testdata/confluence_page.json")
	require.NoError(t, err)

	var gotPath, gotQuery, gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	c, err := NewConfluence(srv.URL+"/wiki/", "86671364", fetch.New(5*time.Second),
		WithCredentials("screener@example.com", "api-token"))
	require.NoError(t, err)

	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, acmeBeta, got)
	assert.Equal(t, "/wiki/rest/api/content/86671364", gotPath)
	assert.Equal(t, "expand=body.storage", gotQuery)
	assert.Equal(t, "screener@example.com", gotUser)
	assert.Equal(t, "api-token", gotPass)
}

func TestConfluenceErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("constructor requires collaborators", func(t *testing.T) {
		_, err := NewConfluence("", "1", fetch.New(time.Second))
		assert.Error(t, err)
		_, err = NewConfluence("https://wiki.test", "", fetch.New(time.Second))
		assert.Error(t, err)
		_, err = NewConfluence("https://wiki.test", "1", nil)
		assert.Error(t, err)
	})

	t.Run("non-200 is a fetch error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockFetcher(ctrl)
		fetcher.EXPECT().
			Get(gomock.Any(), "https://wiki.test/rest/api/content/1?expand=body.storage", gomock.Any()).
			Return(nil, &fetch.StatusError{URL: "https://wiki.test", StatusCode: http.StatusUnauthorized})

		c, err := NewConfluence("https://wiki.test", "1", fetcher)
		require.NoError(t, err)
		_, err = c.Fetch(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sources.ErrFetch))
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("body that is not json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fetcher := mocks.NewMockFetcher(ctrl)
		fetcher.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&fetch.Document{Body: []byte("<html>login</html>")}, nil)

		c, err := NewConfluence("https://wiki.test", "1", fetcher)
		require.NoError(t, err)
		_, err = c.Fetch(ctx)
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})
}

func TestFile(t *testing.T) {
	got, err := NewFile("testdata/roster.yaml").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BusinessEntity{
		{Issuer: "Acme Token", Individuals: []string{"Jane Doe", "Ivan Petrov"}},
		{Issuer: "Beta Coin", Individuals: []string{}},
	}, got)

	_, err = NewFile("testdata/missing.yaml").Fetch(context.Background())
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	t.Run("column form", func(t *testing.T) {
		got, err := ParseYAML([]byte("token_issuer: Acme Token, Beta Coin\nkey_individuals: Jane Doe, Ivan Petrov\n"))
		require.NoError(t, err)
		assert.Equal(t, acmeBeta, got)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := ParseYAML([]byte("{}"))
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})

	t.Run("entity without issuer", func(t *testing.T) {
		_, err := ParseYAML([]byte("entities:\n  - individuals: [Jane Doe]\n"))
		assert.True(t, errors.Is(err, sources.ErrRosterFormat))
	})
}
