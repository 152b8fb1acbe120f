package normalize

import (
	"regexp"
	"strings"

	"sanctionscan/internal/screening/models"
)

// euNamePattern matches bullet-prefixed "Name:" or "Name/Alias:" labels in
// the consolidated EU PDF text. The capture stops at a newline, at the next
// Title/Function/Birth label, or at end of text. PDF text carries non-breaking
// spaces, so whitespace classes include \p{Z}.
var euNamePattern = regexp.MustCompile(
	`(?i)•[\s\p{Z}]*Name(?:/Alias)?:[\s\p{Z}]*([\p{L}\p{N}\p{M}_\s\p{Z},']+)(?:\n|Title|Function|Birth|$)`,
)

// EURule extracts names from the EU financial sanctions PDF text.
type EURule struct{}

func (EURule) List() models.List { return models.ListEU }

func (EURule) Version() string { return "eu-pdf/1" }

func (EURule) Extract(text string) []string {
	names := make([]string, 0)
	for _, m := range euNamePattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(m[1]), "\n", " "))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
