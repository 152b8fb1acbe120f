// Package matcher scores roster names against sanctions corpora and keeps
// the best entry per list when it reaches the threshold.
package matcher

import (
	"context"
	"fmt"
	"log/slog"

	"sanctionscan/internal/screening/models"
)

// DefaultThreshold is the minimum score for a match to be reported.
const DefaultThreshold = 85

// Matcher runs fuzzy matching with a fixed scorer and threshold.
type Matcher struct {
	scorer    Scorer
	threshold int
	logger    *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

func WithScorer(s Scorer) Option {
	return func(m *Matcher) {
		if s != nil {
			m.scorer = s
		}
	}
}

func WithThreshold(threshold int) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a Matcher using the token sort scorer and DefaultThreshold
// unless overridden.
func New(opts ...Option) (*Matcher, error) {
	m := &Matcher{
		scorer:    TokenSortScorer{},
		threshold: DefaultThreshold,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.threshold < 0 || m.threshold > 100 {
		return nil, fmt.Errorf("threshold must be within 0..100, got %d", m.threshold)
	}
	return m, nil
}

// Threshold returns the configured minimum score.
func (m *Matcher) Threshold() int { return m.threshold }

// Scorer returns the configured scorer.
func (m *Matcher) Scorer() Scorer { return m.scorer }

type indexEntry struct {
	name string
	key  string
	size int
}

// Index is a corpus prepared for repeated queries.
type Index struct {
	list    models.List
	entries []indexEntry
}

// Len reports the number of indexed entries.
func (idx *Index) Len() int { return len(idx.entries) }

// Index computes the scorer key of every corpus entry, keeping corpus order.
func (m *Matcher) Index(list models.List, corpus models.Corpus) *Index {
	idx := &Index{list: list, entries: make([]indexEntry, len(corpus))}
	for i, e := range corpus {
		key := m.scorer.Key(e.Name)
		idx.entries[i] = indexEntry{name: e.Name, key: key, size: runeLen(key)}
	}
	return idx
}

// Best returns the highest scoring entry for query. Ties keep the earliest
// entry. The boolean is false when the best score is below the threshold or
// the index is empty.
//
// Entries whose length alone rules out beating the current best, or reaching
// the threshold, are skipped without scoring; this never changes the result.
func (m *Matcher) Best(query string, idx *Index) (models.MatchResult, bool) {
	qkey := m.scorer.Key(query)
	qsize := runeLen(qkey)

	bestScore, bestAt := -1, -1
	for i, e := range idx.entries {
		bound := m.scorer.Bound(qsize, e.size)
		if bound < m.threshold || bound <= bestScore {
			continue
		}
		score := m.scorer.Compare(qkey, e.key)
		if score > bestScore {
			bestScore, bestAt = score, i
			if score == 100 {
				break
			}
		}
	}

	if bestAt < 0 || bestScore < m.threshold {
		return models.MatchResult{}, false
	}
	return models.MatchResult{
		QueryName:   query,
		MatchedName: idx.entries[bestAt].name,
		Score:       bestScore,
		SourceList:  idx.list,
	}, true
}

// MatchList screens every roster query against one corpus, issuer first and
// then individuals, in roster order.
func (m *Matcher) MatchList(ctx context.Context, roster []models.BusinessEntity, list models.List, corpus models.Corpus) ([]models.MatchResult, error) {
	idx := m.Index(list, corpus)
	results := make([]models.MatchResult, 0)
	for _, entity := range roster {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, q := range entity.Queries() {
			if r, ok := m.Best(q, idx); ok {
				results = append(results, r)
			}
		}
	}
	m.logger.DebugContext(ctx, "list matched", "list", list, "corpus", idx.Len(), "matches", len(results))
	return results, nil
}

// MatchAll screens the roster against every list. Lists missing from
// corpora get an empty bucket.
func (m *Matcher) MatchAll(ctx context.Context, roster []models.BusinessEntity, corpora map[models.List]models.Corpus) (*models.MatchReport, error) {
	report := models.NewMatchReport()
	for _, list := range models.Lists {
		results, err := m.MatchList(ctx, roster, list, corpora[list])
		if err != nil {
			return nil, err
		}
		report.SetBucket(list, results)
	}
	return report, nil
}

// MatchAll screens roster against corpora with the default scorer.
func MatchAll(ctx context.Context, roster []models.BusinessEntity, corpora map[models.List]models.Corpus, threshold int) (*models.MatchReport, error) {
	m, err := New(WithThreshold(threshold))
	if err != nil {
		return nil, err
	}
	return m.MatchAll(ctx, roster, corpora)
}
