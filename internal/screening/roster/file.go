package roster

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sanctionscan/internal/screening/models"
)

// fileRoster is the on-disk roster layout. Either the entity list or the
// two column cells may be given; entities win when both are present.
type fileRoster struct {
	Entities       []models.BusinessEntity `yaml:"entities"`
	TokenIssuer    string                  `yaml:"token_issuer"`
	KeyIndividuals string                  `yaml:"key_individuals"`
}

// File reads the roster from a YAML document on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Fetch(_ context.Context) ([]models.BusinessEntity, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	return ParseYAML(raw)
}

// ParseYAML decodes a roster document.
func ParseYAML(raw []byte) ([]models.BusinessEntity, error) {
	var doc fileRoster
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, formatError("decode roster yaml: " + err.Error())
	}

	if len(doc.Entities) > 0 {
		out := make([]models.BusinessEntity, 0, len(doc.Entities))
		for i, e := range doc.Entities {
			if e.Issuer == "" {
				return nil, formatError(fmt.Sprintf("entity %d has no issuer", i))
			}
			if e.Individuals == nil {
				e.Individuals = []string{}
			}
			out = append(out, e)
		}
		return out, nil
	}

	if doc.TokenIssuer == "" {
		return nil, formatError("roster file needs entities or token_issuer")
	}
	return Entities(doc.TokenIssuer, doc.KeyIndividuals), nil
}

// Static is a fixed roster, used by tests and embedding callers.
type Static []models.BusinessEntity

func (s Static) Fetch(context.Context) ([]models.BusinessEntity, error) {
	return []models.BusinessEntity(s), nil
}
