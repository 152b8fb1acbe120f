package normalize

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanctionscan/internal/screening/models"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func readGolden(t *testing.T, name string) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(readFixture(t, name), "\n"), "\n")
}

func TestRulesGolden(t *testing.T) {
	tests := []struct {
		rule    Rule
		fixture string
		golden  string
	}{
		{rule: EURule{}, fixture: "eu_sample.txt", golden: "eu_sample.golden"},
		{rule: UKRule{}, fixture: "uk_sample.txt", golden: "uk_sample.golden"},
		{rule: UNRule{}, fixture: "un_sample.html", golden: "un_sample.golden"},
	}

	for _, tt := range tests {
		t.Run(tt.rule.Version(), func(t *testing.T) {
			got := tt.rule.Extract(readFixture(t, tt.fixture))
			assert.Equal(t, readGolden(t, tt.golden), got)
		})
	}
}

func TestRulesReturnEmptyWithoutLabels(t *testing.T) {
	for _, rule := range []Rule{EURule{}, UKRule{}, UNRule{}} {
		t.Run(string(rule.List()), func(t *testing.T) {
			got := rule.Extract("no labels in here, just a Title: and some Function: text")
			require.NotNil(t, got)
			assert.Empty(t, got)

			got = rule.Extract("")
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestEURule(t *testing.T) {
	t.Run("excludes trailing title label", func(t *testing.T) {
		got := EURule{}.Extract("• Name: John Malkovich Title: Director")
		assert.Equal(t, []string{"John Malkovich"}, got)
	})

	t.Run("label is case insensitive", func(t *testing.T) {
		got := EURule{}.Extract("• NAME/ALIAS: Jane Roe birth date: 1980")
		assert.Equal(t, []string{"Jane Roe"}, got)
	})

	t.Run("name at end of text", func(t *testing.T) {
		got := EURule{}.Extract("• Name: Solo Entry")
		assert.Equal(t, []string{"Solo Entry"}, got)
	})

	t.Run("non-breaking spaces count as whitespace", func(t *testing.T) {
		got := EURule{}.Extract("•\u00a0Name:\u00a0John\u00a0Malkovich Title: Director")
		assert.Equal(t, []string{"John\u00a0Malkovich"}, got)
	})

	t.Run("requires bullet prefix", func(t *testing.T) {
		got := EURule{}.Extract("Name: No Bullet\n")
		assert.Empty(t, got)
	})
}

func TestUKRule(t *testing.T) {
	t.Run("stops before name type label", func(t *testing.T) {
		got := UKRule{}.Extract("Name: SMITH, John Name Type: Primary Name")
		assert.Equal(t, []string{"SMITH, John"}, got)
	})

	t.Run("label without terminator is skipped", func(t *testing.T) {
		got := UKRule{}.Extract("Name: Orphan Entry Regime: Russia")
		assert.Empty(t, got)
	})

	t.Run("label followed by a non-breaking space", func(t *testing.T) {
		got := UKRule{}.Extract("Name:\u00a0PETROV, Ivan Name Type: Primary Name")
		assert.Equal(t, []string{"PETROV, Ivan"}, got)
	})

	t.Run("stop label is case insensitive", func(t *testing.T) {
		got := UKRule{}.Extract("name: lower case name type: alias")
		assert.Equal(t, []string{"lower case"}, got)
	})
}

func TestUNRule(t *testing.T) {
	t.Run("ignores rows without rowtext class", func(t *testing.T) {
		markup := `<table><tr><td><strong>Name:</strong> 1: SKIP 2: ME</td></tr></table>`
		assert.Empty(t, UNRule{}.Extract(markup))
	})

	t.Run("drops na placeholders only as whole fragments", func(t *testing.T) {
		markup := `<table><tr class="rowtext"><td><strong>Name:</strong> 1: HANAN 2: na 3: NA</td></tr></table>`
		assert.Equal(t, []string{"HANAN"}, UNRule{}.Extract(markup))
	})

	t.Run("splits on non-breaking spaces", func(t *testing.T) {
		markup := `<table><tr class="rowtext"><td><strong>Name:</strong>&nbsp;1:&nbsp;ABDUL&nbsp;2:&nbsp;BASIR&nbsp;3:&nbsp;na&nbsp;4:&nbsp;na</td></tr></table>`
		assert.Equal(t, []string{"ABDUL BASIR"}, UNRule{}.Extract(markup))
	})

	t.Run("label with only placeholders yields nothing", func(t *testing.T) {
		markup := `<table><tr class="rowtext"><td><strong>Name:</strong> 1: na 2: na</td></tr></table>`
		assert.Empty(t, UNRule{}.Extract(markup))
	})
}

func TestEntries(t *testing.T) {
	got := Entries(models.ListOFAC, []string{"  ACME LTD ", "", "  ", "Multi\nLine\r\nName", "-0-"})

	assert.Equal(t, models.Corpus{
		{Name: "ACME LTD", SourceList: models.ListOFAC},
		{Name: "Multi Line Name", SourceList: models.ListOFAC},
		{Name: "-0-", SourceList: models.ListOFAC},
	}, got)

	empty := Entries(models.ListUK, nil)
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCorpusTagsRuleList(t *testing.T) {
	corpus := Corpus(EURule{}, "• Name: John Malkovich Title: Director")
	require.Len(t, corpus, 1)
	assert.Equal(t, models.ListEU, corpus[0].SourceList)
	assert.Equal(t, "John Malkovich", corpus[0].Name)
}
