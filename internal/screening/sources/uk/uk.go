// Package uk loads the UK Sanctions List from its static HTML publication.
package uk

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/normalize"
	"sanctionscan/internal/screening/sources"
)

const DefaultURL = "https://docs.fcdo.gov.uk/docs/UK-Sanctions-List.html"

// Adapter parses the page into a DOM, takes its visible text and applies the
// UK name rule. Scripts are never evaluated.
type Adapter struct {
	sources.Base
	fetcher fetch.Fetcher
	rule    normalize.Rule
	logger  *slog.Logger
}

type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(url string, fetcher fetch.Fetcher, opts ...Option) *Adapter {
	if url == "" {
		url = DefaultURL
	}
	a := &Adapter{
		Base:    sources.NewBase(models.ListUK, sources.FormatStaticHTML, url),
		fetcher: fetcher,
		rule:    normalize.UKRule{},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Load(ctx context.Context) (models.Corpus, error) {
	doc, err := a.fetcher.Get(ctx, a.URL())
	if err != nil {
		return nil, a.FetchError(err)
	}
	text := VisibleText(fetch.DecodeText(doc))
	if text == "" {
		a.logger.WarnContext(ctx, "uk page has no visible text", "url", a.URL())
	}
	return normalize.Corpus(a.rule, text), nil
}

// ExtractNames applies the UK rule to the visible text of raw UTF-8 markup.
func (a *Adapter) ExtractNames(_ context.Context, raw []byte) ([]string, error) {
	return a.rule.Extract(VisibleText(string(raw))), nil
}

// VisibleText returns the text content of markup with script, style and
// noscript elements removed. Unparseable markup yields an empty string.
func VisibleText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, template").Remove()
	return doc.Text()
}
