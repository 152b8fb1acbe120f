// Package eu loads the EU consolidated financial sanctions list from its PDF
// publication.
package eu

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/normalize"
	"sanctionscan/internal/screening/sources"
)

// DefaultURL is the full sanctions list PDF. The token is a fixed public
// access token, not a credential.
const DefaultURL = "https://webgate.ec.europa.eu/fsd/fsf/public/files/pdfFullSanctionsList/content?token=dG9rZW4tMjAxNw"

// DefaultMaxPages bounds how much of the document is read.
const DefaultMaxPages = 5

// Adapter extracts PDF text page by page and applies the EU name rule.
type Adapter struct {
	sources.Base
	fetcher  fetch.Fetcher
	rule     normalize.Rule
	maxPages int
	logger   *slog.Logger
}

type Option func(*Adapter)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithMaxPages limits extraction to the first n pages. Zero or a negative
// value reads every page.
func WithMaxPages(n int) Option {
	return func(a *Adapter) {
		a.maxPages = n
	}
}

func New(url string, fetcher fetch.Fetcher, opts ...Option) *Adapter {
	if url == "" {
		url = DefaultURL
	}
	a := &Adapter{
		Base:     sources.NewBase(models.ListEU, sources.FormatPDF, url),
		fetcher:  fetcher,
		rule:     normalize.EURule{},
		maxPages: DefaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
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
	names, err := a.ExtractNames(ctx, doc.Body)
	if err != nil {
		return nil, err
	}
	return normalize.Entries(models.ListEU, names), nil
}

// ExtractNames reads the PDF text and applies the EU rule to it.
func (a *Adapter) ExtractNames(ctx context.Context, raw []byte) ([]string, error) {
	text, err := a.ExtractText(ctx, raw)
	if err != nil {
		return nil, err
	}
	return a.rule.Extract(text), nil
}

// ExtractText concatenates the text of the first maxPages pages. Pages that
// yield no text are skipped with a warning. Only a document that cannot be
// opened is an error.
func (a *Adapter) ExtractText(ctx context.Context, raw []byte) (string, error) {
	reader, err := openPDF(raw)
	if err != nil {
		return "", sources.NewSourceError(sources.KindExtraction, models.ListEU, "open pdf", err)
	}

	total := reader.NumPage()
	limit := total
	if a.maxPages > 0 && a.maxPages < total {
		limit = a.maxPages
	}
	a.logger.InfoContext(ctx, "extracting eu pdf", "pages_total", total, "pages_read", limit)

	var sb strings.Builder
	for i := 1; i <= limit; i++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		text, err := pageText(reader, i)
		if err != nil || strings.TrimSpace(text) == "" {
			a.logger.WarnContext(ctx, "no text found on pdf page", "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func openPDF(raw []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("corrupt pdf: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
}

func pageText(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", num, r)
		}
	}()
	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
