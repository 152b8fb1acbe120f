package models

import (
	"fmt"
	"strings"
)

// List identifies a sanctions list the screening runs against.
type List string

const (
	ListOFAC List = "OFAC"
	ListEU   List = "EU"
	ListUK   List = "UK"
	ListUN   List = "UN"
)

// Lists is the fixed iteration order used for dispatch and reporting.
var Lists = []List{ListOFAC, ListEU, ListUK, ListUN}

// ParseList maps a case-insensitive list name to a List.
func ParseList(s string) (List, error) {
	l := List(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Lists {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sanctions list %q", s)
}

// BusinessEntity is a token issuer plus the individuals associated with it.
type BusinessEntity struct {
	Issuer      string   `json:"issuer" yaml:"issuer"`
	Individuals []string `json:"individuals" yaml:"individuals"`
}

// Queries returns the names to screen for this entity: issuer first, then
// individuals in roster order.
func (b BusinessEntity) Queries() []string {
	out := make([]string, 0, 1+len(b.Individuals))
	out = append(out, b.Issuer)
	return append(out, b.Individuals...)
}

// SanctionedNameEntry is one normalized name taken from a sanctions list.
// Name is never empty, trimmed, and contains no newlines.
type SanctionedNameEntry struct {
	Name       string
	SourceList List
}

// Corpus is the ordered set of entries extracted from one list. Duplicates
// are allowed.
type Corpus []SanctionedNameEntry

// Names returns the entry names in corpus order.
func (c Corpus) Names() []string {
	out := make([]string, len(c))
	for i, e := range c {
		out[i] = e.Name
	}
	return out
}

// MatchResult records the best corpus entry for a query on one list.
type MatchResult struct {
	QueryName   string
	MatchedName string
	Score       int
	SourceList  List
}

// MatchReport buckets match results per sanctions list. Every bucket is
// non-nil, so an empty list serializes as [] rather than null.
type MatchReport struct {
	OFAC []MatchResult
	EU   []MatchResult
	UK   []MatchResult
	UN   []MatchResult
}

// NewMatchReport returns a report with empty, non-nil buckets.
func NewMatchReport() *MatchReport {
	return &MatchReport{
		OFAC: []MatchResult{},
		EU:   []MatchResult{},
		UK:   []MatchResult{},
		UN:   []MatchResult{},
	}
}

// Bucket returns the results recorded for list.
func (r *MatchReport) Bucket(list List) []MatchResult {
	switch list {
	case ListOFAC:
		return r.OFAC
	case ListEU:
		return r.EU
	case ListUK:
		return r.UK
	case ListUN:
		return r.UN
	}
	return nil
}

// SetBucket replaces the results recorded for list. A nil slice is stored
// as an empty one.
func (r *MatchReport) SetBucket(list List, results []MatchResult) {
	if results == nil {
		results = []MatchResult{}
	}
	switch list {
	case ListOFAC:
		r.OFAC = results
	case ListEU:
		r.EU = results
	case ListUK:
		r.UK = results
	case ListUN:
		r.UN = results
	}
}

// Total counts results across all buckets.
func (r *MatchReport) Total() int {
	return len(r.OFAC) + len(r.EU) + len(r.UK) + len(r.UN)
}
