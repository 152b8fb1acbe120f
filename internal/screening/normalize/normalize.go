// Package normalize turns extracted source text into corpus entries.
//
// Each list has its own extraction Rule. Rules are versioned so fixture
// updates can be tied to the upstream format they were captured from; bump
// the version whenever a pattern changes.
//
// The OFAC list has no rule: its names come straight from the second CSV
// column and only pass through Entries.
package normalize

import (
	"strings"

	"sanctionscan/internal/screening/models"
)

// Rule extracts candidate names for one list from a text blob.
type Rule interface {
	List() models.List
	Version() string
	Extract(text string) []string
}

// Corpus applies rule to text and returns the cleaned corpus.
func Corpus(rule Rule, text string) models.Corpus {
	return Entries(rule.List(), rule.Extract(text))
}

// Entries cleans raw names and tags them with list. Names that are empty
// after cleaning are dropped. The result is never nil.
func Entries(list models.List, names []string) models.Corpus {
	corpus := make(models.Corpus, 0, len(names))
	for _, n := range names {
		n = Clean(n)
		if n == "" {
			continue
		}
		corpus = append(corpus, models.SanctionedNameEntry{Name: n, SourceList: list})
	}
	return corpus
}

// Clean trims a name and replaces embedded line breaks with spaces.
func Clean(name string) string {
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, "\r\n") {
		name = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(name)
		name = strings.TrimSpace(name)
	}
	return name
}
