// Package browser isolates page rendering behind a narrow interface so only
// the UN adapter depends on a headless browser, and tests can stub it.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sanctionscan/internal/platform/fetch"
)

// Browser renders pages and lists their hyperlinks.
type Browser interface {
	// RenderPage returns the page markup after rendering.
	RenderPage(ctx context.Context, url string) (string, error)

	// ListLinks returns the absolute href of every anchor on the page, in
	// document order.
	ListLinks(ctx context.Context, url string) ([]string, error)
}

// HTTPBrowser fetches pages without executing scripts. It serves pages whose
// links and content are present in the served markup.
type HTTPBrowser struct {
	fetcher fetch.Fetcher
}

// NewHTTPBrowser creates a Browser backed by plain GET requests.
func NewHTTPBrowser(fetcher fetch.Fetcher) *HTTPBrowser {
	return &HTTPBrowser{fetcher: fetcher}
}

func (b *HTTPBrowser) RenderPage(ctx context.Context, pageURL string) (string, error) {
	doc, err := b.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return fetch.DecodeText(doc), nil
}

func (b *HTTPBrowser) ListLinks(ctx context.Context, pageURL string) ([]string, error) {
	markup, err := b.RenderPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(markup, pageURL)
}

// ExtractLinks returns every anchor href in markup resolved against baseURL.
// Hrefs that do not parse are skipped.
func ExtractLinks(markup, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})
	return links, nil
}
