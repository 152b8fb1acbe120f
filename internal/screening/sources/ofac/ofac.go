// Package ofac loads the OFAC Specially Designated Nationals list from its
// CSV export.
package ofac

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/normalize"
	"sanctionscan/internal/screening/sources"
)

// DefaultURL is the public SDN CSV export.
const DefaultURL = "https://sanctionslistservice.ofac.treas.gov/api/PublicationPreview/exports/SDN.CSV"

// nameColumn is the zero-based column holding the SDN name. The export has
// no header row.
const nameColumn = 1

// Adapter reads the SDN CSV and uses the name column as the corpus.
type Adapter struct {
	sources.Base
	fetcher fetch.Fetcher
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
		Base:    sources.NewBase(models.ListOFAC, sources.FormatCSV, url),
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load fetches the export and returns its names as the OFAC corpus.
func (a *Adapter) Load(ctx context.Context) (models.Corpus, error) {
	doc, err := a.fetcher.Get(ctx, a.URL())
	if err != nil {
		return nil, a.FetchError(err)
	}
	names, err := a.ExtractNames(ctx, doc.Body)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "ofac rows extracted", "list", a.List(), "rows", len(names))
	return normalize.Entries(models.ListOFAC, names), nil
}

// ExtractNames returns the second column of every row, one string per row.
// Blank lines are ignored. A row with fewer than two columns, or content
// that is not valid CSV, is a MalformedInputError.
func (a *Adapter) ExtractNames(_ context.Context, raw []byte) ([]string, error) {
	// The export ends with a DOS end-of-file marker.
	raw = bytes.TrimRight(raw, "\x1a\r\n")

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	names := make([]string, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sources.NewSourceError(sources.KindMalformedInput, models.ListOFAC, "parse csv", err)
		}
		if len(record) <= nameColumn {
			if isBlank(record) {
				continue
			}
			line, _ := r.FieldPos(0)
			return nil, sources.NewSourceError(sources.KindMalformedInput, models.ListOFAC,
				fmt.Sprintf("line %d has %d column(s), need at least %d", line, len(record), nameColumn+1), nil)
		}
		names = append(names, record[nameColumn])
	}
	return names, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
