package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sep      string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			sep:      ", ",
			expected: []string{},
		},
		{
			name:     "roster cell",
			input:    "Acme Token, Beta Coin",
			sep:      ", ",
			expected: []string{"Acme Token", "Beta Coin"},
		},
		{
			name:     "keeps duplicates",
			input:    "Jane Doe, Jane Doe",
			sep:      ", ",
			expected: []string{"Jane Doe", "Jane Doe"},
		},
		{
			name:     "drops blank parts",
			input:    " OFAC,, EU ,",
			sep:      ",",
			expected: []string{"OFAC", "EU"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitAndTrim(tt.input, tt.sep))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"UN", " OFAC", "UN", "", "EU"},
			expected: []string{"UN", "OFAC", "EU"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
