// Package app assembles the screening pipeline from configuration. Both
// binaries share it so the server and the CLI screen identically.
package app

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"sanctionscan/internal/platform/config"
	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/screening/browser"
	"sanctionscan/internal/screening/matcher"
	"sanctionscan/internal/screening/metrics"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/orchestrator"
	"sanctionscan/internal/screening/roster"
	"sanctionscan/internal/screening/sources"
	"sanctionscan/internal/screening/sources/eu"
	"sanctionscan/internal/screening/sources/ofac"
	"sanctionscan/internal/screening/sources/uk"
	"sanctionscan/internal/screening/sources/un"
)

// NewFetcher builds the shared HTTP client for sources and the roster.
func NewFetcher(cfg config.Sources) *fetch.Client {
	return fetch.New(cfg.HTTPTimeout,
		fetch.WithRateLimit(cfg.RateLimit, 1),
		fetch.WithUserAgent(cfg.UserAgent),
	)
}

// NewBrowser picks the UN page renderer.
func NewBrowser(cfg config.Sources, fetcher fetch.Fetcher) browser.Browser {
	if cfg.BrowserMode == "http" {
		return browser.NewHTTPBrowser(fetcher)
	}
	return browser.NewChrome(
		browser.WithExecPath(cfg.BrowserPath),
		browser.WithSettle(cfg.BrowserSettle),
	)
}

// NewRegistry registers an adapter for every configured list.
func NewRegistry(cfg config.Sources, fetcher fetch.Fetcher, b browser.Browser, logger *slog.Logger) (*sources.Registry, error) {
	adapters := make([]sources.Adapter, 0, len(cfg.Lists))
	for _, list := range cfg.Lists {
		l := logger.With("list", string(list))
		switch list {
		case models.ListOFAC:
			adapters = append(adapters, ofac.New(cfg.OFACURL, fetcher, ofac.WithLogger(l)))
		case models.ListEU:
			adapters = append(adapters, eu.New(cfg.EUURL, fetcher, eu.WithLogger(l), eu.WithMaxPages(cfg.EUMaxPages)))
		case models.ListUK:
			adapters = append(adapters, uk.New(cfg.UKURL, fetcher, uk.WithLogger(l)))
		case models.ListUN:
			adapters = append(adapters, un.New(cfg.UNURL, b, un.WithLogger(l), un.WithLinkFragment(cfg.UNLinkFragment)))
		default:
			return nil, fmt.Errorf("no adapter for list %s", list)
		}
	}
	return sources.NewRegistry(adapters...)
}

// NewConfluenceRoster builds the Confluence roster source.
func NewConfluenceRoster(cfg config.Confluence, fetcher fetch.Fetcher, logger *slog.Logger) (*roster.Confluence, error) {
	return roster.NewConfluence(cfg.BaseURL, cfg.PageID, fetcher,
		roster.WithCredentials(cfg.User, cfg.APIToken),
		roster.WithLogger(logger),
	)
}

// NewService wires the orchestrator for rosterSource. Metrics register on
// reg; a nil reg disables them.
func NewService(cfg config.Config, rosterSource roster.Source, fetcher fetch.Fetcher, logger *slog.Logger, reg prometheus.Registerer) (*orchestrator.Service, error) {
	registry, err := NewRegistry(cfg.Sources, fetcher, NewBrowser(cfg.Sources, fetcher), logger)
	if err != nil {
		return nil, err
	}

	scorer, err := matcher.ParseScorer(cfg.Matching.Scorer)
	if err != nil {
		return nil, err
	}
	m, err := matcher.New(
		matcher.WithThreshold(cfg.Matching.Threshold),
		matcher.WithScorer(scorer),
		matcher.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithSourceTimeout(cfg.Sources.SourceTimeout),
	}
	if reg != nil {
		opts = append(opts, orchestrator.WithMetrics(metrics.New(reg)))
	}
	logger.Info("screening pipeline configured",
		"lists", cfg.Sources.Lists,
		"threshold", m.Threshold(),
		"scorer", m.Scorer().Name(),
		"http_timeout", cfg.Sources.HTTPTimeout.String(),
		"eu_max_pages", cfg.Sources.EUMaxPages,
	)
	return orchestrator.New(rosterSource, registry, m, opts...)
}
