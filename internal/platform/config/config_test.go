package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionscan/internal/screening/models"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"SANCTIONSCAN_ADDR", "EU_PDF_MAX_PAGES", "HTTP_TIMEOUT", "MATCH_THRESHOLD",
		"MATCH_SCORER", "SCREEN_LISTS", "BROWSER_MODE", "FETCH_RATE_LIMIT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5, cfg.Sources.EUMaxPages)
	assert.Equal(t, 60*time.Second, cfg.Sources.HTTPTimeout)
	assert.Equal(t, 85, cfg.Matching.Threshold)
	assert.Equal(t, "token_sort", cfg.Matching.Scorer)
	assert.Equal(t, "chrome", cfg.Sources.BrowserMode)
	assert.Equal(t, models.Lists, cfg.Sources.Lists)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SANCTIONSCAN_ADDR", ":9090")
	t.Setenv("EU_PDF_MAX_PAGES", "0")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("MATCH_THRESHOLD", "90")
	t.Setenv("MATCH_SCORER", "levenshtein")
	t.Setenv("SCREEN_LISTS", "un, ofac,UN")
	t.Setenv("FETCH_RATE_LIMIT", "2.5")
	t.Setenv("CONFLUENCE_PAGE_ID", "86671364")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 0, cfg.Sources.EUMaxPages)
	assert.Equal(t, 15*time.Second, cfg.Sources.HTTPTimeout)
	assert.Equal(t, 90, cfg.Matching.Threshold)
	assert.Equal(t, "levenshtein", cfg.Matching.Scorer)
	assert.Equal(t, []models.List{models.ListUN, models.ListOFAC}, cfg.Sources.Lists)
	assert.InDelta(t, 2.5, cfg.Sources.RateLimit, 0.0001)
	assert.Equal(t, "86671364", cfg.Confluence.PageID)
}

func TestFromEnvInvalid(t *testing.T) {
	t.Run("bad number", func(t *testing.T) {
		t.Setenv("MATCH_THRESHOLD", "high")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MATCH_THRESHOLD")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "sixty")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
	})

	t.Run("unknown list", func(t *testing.T) {
		t.Setenv("SCREEN_LISTS", "OFAC,INTERPOL")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INTERPOL")
	})

	t.Run("unknown scorer", func(t *testing.T) {
		t.Setenv("MATCH_SCORER", "jaro")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MATCH_SCORER")
		assert.Contains(t, err.Error(), "jaro")
	})
}
