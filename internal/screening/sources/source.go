package sources

import (
	"context"
	"fmt"

	"sanctionscan/internal/screening/models"
)

// Format describes the structural shape of a source document.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatPDF         Format = "pdf"
	FormatStaticHTML  Format = "static_html"
	FormatDynamicHTML Format = "dynamic_html"
)

// Extractor turns raw source content into candidate name strings.
type Extractor interface {
	ExtractNames(ctx context.Context, raw []byte) ([]string, error)
}

// Adapter is the universal interface every sanctions source implements. Load
// fetches the source and returns its normalized corpus.
type Adapter interface {
	// List returns the sanctions list this adapter feeds
	List() models.List

	// Format returns the document format the adapter parses
	Format() Format

	// Load fetches the document and produces the corpus for List.
	Load(ctx context.Context) (models.Corpus, error)
}

// Registry maintains one adapter per sanctions list.
type Registry struct {
	adapters map[models.List]Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[models.List]Adapter, len(adapters))}
	for _, a := range adapters {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an adapter to the registry
func (r *Registry) Register(a Adapter) error {
	list := a.List()
	if _, exists := r.adapters[list]; exists {
		return fmt.Errorf("adapter for %s already registered", list)
	}
	r.adapters[list] = a
	return nil
}

// Get retrieves the adapter for a list
func (r *Registry) Get(list models.List) (Adapter, bool) {
	a, ok := r.adapters[list]
	return a, ok
}

// All returns registered adapters in models.Lists order.
func (r *Registry) All() []Adapter {
	result := make([]Adapter, 0, len(r.adapters))
	for _, list := range models.Lists {
		if a, ok := r.adapters[list]; ok {
			result = append(result, a)
		}
	}
	return result
}

// Base carries the identity shared by every adapter implementation.
type Base struct {
	list   models.List
	format Format
	url    string
}

// NewBase creates the shared adapter identity.
func NewBase(list models.List, format Format, url string) Base {
	return Base{list: list, format: format, url: url}
}

func (b Base) List() models.List { return b.list }

func (b Base) Format() Format { return b.format }

// URL returns the document location the adapter loads.
func (b Base) URL() string { return b.url }

// FetchError classifies a transport failure for this adapter's list.
func (b Base) FetchError(err error) *SourceError {
	return NewSourceError(KindFetch, b.list, "fetch "+b.url, err)
}
