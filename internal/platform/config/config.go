package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"sanctionscan/internal/screening/matcher"
	"sanctionscan/internal/screening/models"
	pstrings "sanctionscan/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// Sources holds the sanctions list locations and fetch behaviour.
type Sources struct {
	OFACURL        string
	EUURL          string
	UKURL          string
	UNURL          string
	UNLinkFragment string
	Lists          []models.List

	EUMaxPages    int
	HTTPTimeout   time.Duration
	SourceTimeout time.Duration
	RateLimit     float64
	UserAgent     string

	// BrowserPath selects a Chrome binary. BrowserMode "http" skips
	// headless Chrome and fetches the UN pages without running scripts.
	BrowserPath   string
	BrowserMode   string
	BrowserSettle time.Duration
}

// Confluence locates the roster page.
type Confluence struct {
	BaseURL  string
	PageID   string
	User     string
	APIToken string
}

// Matching configures the fuzzy matcher.
type Matching struct {
	Threshold int
	Scorer    string
}

// Config is the full process configuration.
type Config struct {
	Server     Server
	Sources    Sources
	Confluence Confluence
	Matching   Matching
}

// FromEnv builds the configuration from environment variables so main stays
// lean. Unset variables take defaults; malformed numbers are errors.
func FromEnv() (Config, error) {
	var err error
	p := parser{}

	cfg := Config{
		Server: Server{
			Addr:            getenv("SANCTIONSCAN_ADDR", ":8080"),
			LogLevel:        getenv("LOG_LEVEL", "info"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  p.duration("REQUEST_TIMEOUT", 10*time.Minute),
		},
		Sources: Sources{
			OFACURL:        os.Getenv("OFAC_URL"),
			EUURL:          os.Getenv("EU_URL"),
			UKURL:          os.Getenv("UK_URL"),
			UNURL:          os.Getenv("UN_URL"),
			UNLinkFragment: os.Getenv("UN_LINK_FRAGMENT"),
			EUMaxPages:     p.integer("EU_PDF_MAX_PAGES", 5),
			HTTPTimeout:    p.duration("HTTP_TIMEOUT", 60*time.Second),
			SourceTimeout:  p.duration("SOURCE_TIMEOUT", 0),
			RateLimit:      p.float("FETCH_RATE_LIMIT", 0),
			UserAgent:      os.Getenv("FETCH_USER_AGENT"),
			BrowserPath:    os.Getenv("BROWSER_PATH"),
			BrowserMode:    getenv("BROWSER_MODE", "chrome"),
			BrowserSettle:  p.duration("BROWSER_SETTLE", 2*time.Second),
		},
		Confluence: Confluence{
			BaseURL:  os.Getenv("CONFLUENCE_BASE_URL"),
			PageID:   os.Getenv("CONFLUENCE_PAGE_ID"),
			User:     os.Getenv("CONFLUENCE_USER_EMAIL"),
			APIToken: os.Getenv("CONFLUENCE_API_TOKEN"),
		},
		Matching: Matching{
			Threshold: p.integer("MATCH_THRESHOLD", 85),
			Scorer:    getenv("MATCH_SCORER", "token_sort"),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}

	cfg.Sources.Lists, err = ParseLists(os.Getenv("SCREEN_LISTS"))
	if err != nil {
		return Config{}, err
	}
	if _, err := matcher.ParseScorer(cfg.Matching.Scorer); err != nil {
		return Config{}, fmt.Errorf("MATCH_SCORER: %w", err)
	}
	return cfg, nil
}

// ParseLists parses a comma-separated list selection. Empty means every
// list.
func ParseLists(value string) ([]models.List, error) {
	names := pstrings.DedupeAndTrim(pstrings.SplitAndTrim(value, ","))
	if len(names) == 0 {
		return append([]models.List(nil), models.Lists...), nil
	}
	lists := make([]models.List, 0, len(names))
	for _, n := range names {
		l, err := models.ParseList(n)
		if err != nil {
			return nil, fmt.Errorf("SCREEN_LISTS: %w", err)
		}
		if !slices.Contains(lists, l) {
			lists = append(lists, l)
		}
	}
	return lists, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser keeps the first conversion error so FromEnv can read every field
// before failing.
type parser struct {
	err error
}

func (p *parser) integer(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return f
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return d
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
