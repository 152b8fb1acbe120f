package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"sanctionscan/internal/platform/fetch"
	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/sources"
)

// Confluence reads the roster table from a Confluence page's storage body.
type Confluence struct {
	baseURL string
	pageID  string
	user    string
	token   string
	fetcher fetch.Fetcher
	logger  *slog.Logger
}

type ConfluenceOption func(*Confluence)

func WithLogger(logger *slog.Logger) ConfluenceOption {
	return func(c *Confluence) {
		c.logger = logger
	}
}

// WithCredentials sets the basic-auth user and API token.
func WithCredentials(user, token string) ConfluenceOption {
	return func(c *Confluence) {
		c.user = user
		c.token = token
	}
}

// NewConfluence creates a roster source for the page pageID under baseURL
// (for example https://example.atlassian.net/wiki).
func NewConfluence(baseURL, pageID string, fetcher fetch.Fetcher, opts ...ConfluenceOption) (*Confluence, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("confluence base url is required")
	}
	if pageID == "" {
		return nil, fmt.Errorf("confluence page id is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	c := &Confluence{
		baseURL: strings.TrimRight(baseURL, "/"),
		pageID:  pageID,
		fetcher: fetcher,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// contentResponse is the subset of the content API payload we read.
type contentResponse struct {
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

// PageURL returns the content API address for the configured page.
func (c *Confluence) PageURL() string {
	return fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage", c.baseURL, url.PathEscape(c.pageID))
}

func (c *Confluence) Fetch(ctx context.Context) ([]models.BusinessEntity, error) {
	opts := []fetch.RequestOption{fetch.WithHeader("Accept", "application/json")}
	if c.user != "" || c.token != "" {
		opts = append(opts, fetch.WithBasicAuth(c.user, c.token))
	}

	doc, err := c.fetcher.Get(ctx, c.PageURL(), opts...)
	if err != nil {
		return nil, sources.NewSourceError(sources.KindFetch, "", "fetch roster page "+c.pageID, err)
	}

	var content contentResponse
	if err := json.Unmarshal(doc.Body, &content); err != nil {
		return nil, formatError("decode roster page: " + err.Error())
	}
	if content.Body.Storage.Value == "" {
		return nil, formatError("roster page has no storage body")
	}

	entities, err := FromHTML(content.Body.Storage.Value)
	if err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "roster loaded", "source", "confluence", "page_id", c.pageID, "entities", len(entities))
	return entities, nil
}
