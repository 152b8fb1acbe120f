// Package un loads the UN Security Council consolidated list. The index page
// builds its links with script, so both the discovery and the data page go
// through a Browser.
package un

import (
	"context"
	"log/slog"
	"strings"

	"sanctionscan/internal/screening/browser"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/normalize"
	"sanctionscan/internal/screening/sources"
)

const (
	DefaultURL = "https://scsanctions.un.org/consolidated"

	// DefaultLinkFragment identifies the English full-list page among the
	// index page's links.
	DefaultLinkFragment = "en-all.html"
)

// Adapter discovers the data page from the index, renders it and applies the
// UN name rule to its markup.
type Adapter struct {
	sources.Base
	browser  browser.Browser
	fragment string
	rule     normalize.Rule
	logger   *slog.Logger
}

type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithLinkFragment changes the path fragment used to pick the data page.
func WithLinkFragment(fragment string) Option {
	return func(a *Adapter) {
		if fragment != "" {
			a.fragment = fragment
		}
	}
}

func New(indexURL string, b browser.Browser, opts ...Option) *Adapter {
	if indexURL == "" {
		indexURL = DefaultURL
	}
	a := &Adapter{
		Base:     sources.NewBase(models.ListUN, sources.FormatDynamicHTML, indexURL),
		browser:  b,
		fragment: DefaultLinkFragment,
		rule:     normalize.UNRule{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load runs discovery then rendering. A missing data link returns an
// ErrNoDynamicURLFound source error, which callers treat as an empty list.
func (a *Adapter) Load(ctx context.Context) (models.Corpus, error) {
	markup, err := a.RenderDataPage(ctx)
	if err != nil {
		return nil, err
	}
	names, err := a.ExtractNames(ctx, []byte(markup))
	if err != nil {
		return nil, err
	}
	return normalize.Entries(models.ListUN, names), nil
}

// RenderDataPage performs both browser phases in order and returns the
// rendered data page markup.
func (a *Adapter) RenderDataPage(ctx context.Context) (string, error) {
	links, err := a.browser.ListLinks(ctx, a.URL())
	if err != nil {
		return "", a.FetchError(err)
	}

	dataURL, ok := FindDataLink(links, a.fragment)
	if !ok {
		a.logger.WarnContext(ctx, "un data link not found", "index", a.URL(), "fragment", a.fragment, "links", len(links))
		return "", sources.NewSourceError(sources.KindNoDynamicURL, models.ListUN,
			"no link containing "+a.fragment+" on "+a.URL(), nil)
	}
	a.logger.InfoContext(ctx, "un data link discovered", "url", dataURL)

	markup, err := a.browser.RenderPage(ctx, dataURL)
	if err != nil {
		return "", sources.NewSourceError(sources.KindFetch, models.ListUN, "render "+dataURL, err)
	}
	return markup, nil
}

// ExtractNames applies the UN rule to rendered markup.
func (a *Adapter) ExtractNames(_ context.Context, raw []byte) ([]string, error) {
	return a.rule.Extract(string(raw)), nil
}

// FindDataLink returns the first link whose target contains fragment.
func FindDataLink(links []string, fragment string) (string, bool) {
	for _, href := range links {
		if href != "" && strings.Contains(href, fragment) {
			return href, true
		}
	}
	return "", false
}
