// Package contract holds shared checks every sanctions source adapter must
// pass. Adapter tests build a suite against a stubbed transport and run it.
package contract

import (
	"context"
	"strings"
	"testing"

	"sanctionscan/internal/screening/models"
	"sanctionscan/internal/screening/sources"
)

// CorpusTest defines one successful load and the names it must produce
type CorpusTest struct {
	Name          string
	Adapter       sources.Adapter
	ExpectedNames []string
	ValidateFunc  func(corpus models.Corpus) error
}

// CorpusSuite is a collection of corpus tests for one list
type CorpusSuite struct {
	List   models.List
	Format sources.Format
	Tests  []CorpusTest
}

// Run executes all corpus tests in the suite
func (s *CorpusSuite) Run(t *testing.T) {
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			ctx := context.Background()

			if test.Adapter.List() != s.List {
				t.Errorf("expected list %s, got %s", s.List, test.Adapter.List())
			}
			if test.Adapter.Format() != s.Format {
				t.Errorf("expected format %s, got %s", s.Format, test.Adapter.Format())
			}

			corpus, err := test.Adapter.Load(ctx)
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if corpus == nil {
				t.Fatal("corpus is nil")
			}

			for i, entry := range corpus {
				if entry.SourceList != s.List {
					t.Errorf("entry %d tagged %s, want %s", i, entry.SourceList, s.List)
				}
				if entry.Name == "" {
					t.Errorf("entry %d has empty name", i)
				}
				if entry.Name != strings.TrimSpace(entry.Name) {
					t.Errorf("entry %d not trimmed: %q", i, entry.Name)
				}
				if strings.ContainsAny(entry.Name, "\r\n") {
					t.Errorf("entry %d contains a line break: %q", i, entry.Name)
				}
			}

			if test.ExpectedNames != nil {
				got := corpus.Names()
				if strings.Join(got, "|") != strings.Join(test.ExpectedNames, "|") {
					t.Errorf("expected names %q, got %q", test.ExpectedNames, got)
				}
			}

			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(corpus); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// ErrorContractTest validates that adapter errors follow the taxonomy
type ErrorContractTest struct {
	Name          string
	Adapter       sources.Adapter
	ExpectedKind  sources.ErrorKind
	ExpectedFatal bool
}

// Run executes an error contract test
func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Run(ect.Name, func(t *testing.T) {
		corpus, err := ect.Adapter.Load(context.Background())
		if err == nil {
			t.Fatalf("expected error but got corpus of %d entries", len(corpus))
		}

		if kind := sources.GetKind(err); kind != ect.ExpectedKind {
			t.Errorf("expected error kind %s, got %s", ect.ExpectedKind, kind)
		}
		if fatal := sources.IsFatal(err); fatal != ect.ExpectedFatal {
			t.Errorf("expected fatal=%v, got %v", ect.ExpectedFatal, fatal)
		}
	})
}
