package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionscan/internal/platform/config"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/roster"
)

const ukPage = `<html><body><p>Name: PETROV, Ivan Sergeyevich Name Type: Primary</p></body></html>`

const unIndex = `<html><body><a href="/un/fr-all.html">FR</a><a href="/un/en-all.html">EN</a></body></html>`

const unData = `<html><body><table>` +
	`<tr class="rowtext"><td><strong>Name:</strong> 1: BETA 2: COIN 3: na</td></tr>` +
	`</table></body></html>`

func newSources(t *testing.T) config.Sources {
	t.Helper()
	pdf, err := os.ReadFile("../screening/sources/eu/testdata/eu_sample.pdf")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/ofac.csv", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "1,\"ACME TOKEN LTD\",-0-\n2,\"John Smith\",-0-\n")
	})
	mux.HandleFunc("/eu.pdf", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdf)
	})
	mux.HandleFunc("/uk.html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, ukPage)
	})
	mux.HandleFunc("/un/index", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, unIndex)
	})
	mux.HandleFunc("/un/en-all.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, unData)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return config.Sources{
		OFACURL:     srv.URL + "/ofac.csv",
		EUURL:       srv.URL + "/eu.pdf",
		UKURL:       srv.URL + "/uk.html",
		UNURL:       srv.URL + "/un/index",
		Lists:       models.Lists,
		EUMaxPages:  5,
		HTTPTimeout: 5 * time.Second,
		BrowserMode: "http",
	}
}

func TestNewServiceEndToEnd(t *testing.T) {
	cfg := config.Config{
		Sources:  newSources(t),
		Matching: config.Matching{Threshold: 85, Scorer: "token_sort"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewFetcher(cfg.Sources)

	rosterSource := roster.Static{
		{Issuer: "Acme Token", Individuals: []string{"Ivan Sergeyevich Petrov", "Olga Ivanova"}},
		{Issuer: "Beta Coin", Individuals: []string{}},
	}

	svc, err := NewService(cfg, rosterSource, fetcher, logger, prometheus.NewRegistry())
	require.NoError(t, err)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.MatchResult{
		{QueryName: "Acme Token", MatchedName: "ACME TOKEN LTD", Score: 100, SourceList: models.ListOFAC},
	}, report.OFAC)
	assert.Equal(t, []models.MatchResult{
		{QueryName: "Olga Ivanova", MatchedName: "Olga Ivanova", Score: 100, SourceList: models.ListEU},
	}, report.EU)
	assert.Equal(t, []models.MatchResult{
		{QueryName: "Ivan Sergeyevich Petrov", MatchedName: "PETROV, Ivan Sergeyevich", Score: 100, SourceList: models.ListUK},
	}, report.UK)
	assert.Equal(t, []models.MatchResult{
		{QueryName: "Beta Coin", MatchedName: "BETA COIN", Score: 100, SourceList: models.ListUN},
	}, report.UN)
}

func TestNewRegistry(t *testing.T) {
	cfg := newSources(t)
	cfg.Lists = []models.List{models.ListUK, models.ListOFAC}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fetcher := NewFetcher(cfg)

	registry, err := NewRegistry(cfg, fetcher, NewBrowser(cfg, fetcher), logger)
	require.NoError(t, err)

	all := registry.All()
	require.Len(t, all, 2)
	assert.Equal(t, models.ListOFAC, all[0].List())
	assert.Equal(t, models.ListUK, all[1].List())

	cfg.Lists = []models.List{"INTERPOL"}
	_, err = NewRegistry(cfg, fetcher, NewBrowser(cfg, fetcher), logger)
	assert.Error(t, err)
}

func TestNewServiceRejectsBadThreshold(t *testing.T) {
	cfg := config.Config{Sources: newSources(t), Matching: config.Matching{Threshold: 150}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewService(cfg, roster.Static{}, NewFetcher(cfg.Sources), logger, nil)
	assert.Error(t, err)
}
