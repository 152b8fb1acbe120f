package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"sanctionscan/internal/screening/models"
)

var ukLabel = regexp.MustCompile(`(?i)name:[ \p{Z}]`)

// ukStop is the label that terminates a UK name, matched case-insensitively.
// Its characters (apart from the colon) are all valid name characters, so a
// name run that ends in it always stops exactly at that colon.
const ukStop = " name type"

// UKRule extracts names from the visible text of the UK Sanctions List page.
// A name is a run of word characters, whitespace, commas, apostrophes and
// hyphens following "Name: " that ends right before " Name Type:" or at the
// end of the text.
type UKRule struct{}

func (UKRule) List() models.List { return models.ListUK }

func (UKRule) Version() string { return "uk-html/1" }

func (UKRule) Extract(text string) []string {
	names := make([]string, 0)
	pos := 0
	for pos < len(text) {
		loc := ukLabel.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		labelStart, start := pos+loc[0], pos+loc[1]

		end := ukNameEnd(text, start)
		if end < 0 {
			// No terminator for this label; keep scanning just past it.
			pos = labelStart + 1
			continue
		}
		if name := strings.TrimSpace(text[start:end]); name != "" {
			names = append(names, name)
		}
		pos = end
	}
	return names
}

// ukNameEnd returns the end offset of the name starting at start, or -1 when
// the run is empty or not followed by the stop label or end of text.
func ukNameEnd(text string, start int) int {
	run := start
	for run < len(text) {
		r, size := utf8.DecodeRuneInString(text[run:])
		if !isUKNameRune(r) {
			break
		}
		run += size
	}
	if run == start {
		return -1
	}
	if run == len(text) {
		return run
	}

	end := run - len(ukStop)
	if end > start && text[run] == ':' && strings.EqualFold(text[end:run], ukStop) {
		return end
	}
	return -1
}

func isUKNameRune(r rune) bool {
	switch r {
	case '_', ',', '\'', '-':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r)
}
