package matcher

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Scorer compares two names on a 0..100 scale. Names are first reduced to a
// key; Compare and Bound work on keys so a corpus only needs preparing once.
type Scorer interface {
	Name() string

	// Key returns the comparable form of name.
	Key(name string) string

	// Compare scores two keys.
	Compare(a, b string) int

	// Bound is the highest score Compare can return for keys of the given
	// rune lengths.
	Bound(lenA, lenB int) int
}

// legalForms are corporate designators that carry no identifying value.
// Two-letter forms such as SA or AG are left out: they are also common name
// tokens and would strip people's names.
var legalForms = map[string]struct{}{
	"company": {}, "corp": {}, "corporation": {}, "gmbh": {}, "inc": {},
	"incorporated": {}, "jsc": {}, "limited": {}, "llc": {}, "llp": {}, "ltd": {},
	"ojsc": {}, "ooo": {}, "pjsc": {}, "plc": {}, "pte": {}, "pty": {}, "sarl": {},
	"spa": {}, "srl": {},
}

// Fold lowercases name, strips diacritics and turns every run of
// non-alphanumeric characters into a single space.
func Fold(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	stripped = cases.Fold().String(stripped)

	var sb strings.Builder
	sb.Grow(len(stripped))
	space := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return sb.String()
}

// Tokens returns the folded tokens of name with trailing legal-form
// designators removed. Designators elsewhere in the name are kept, and so is
// the last token when every token is a designator.
func Tokens(name string) []string {
	toks := strings.Fields(Fold(name))
	end := len(toks)
	for end > 1 {
		if _, ok := legalForms[toks[end-1]]; !ok {
			break
		}
		end--
	}
	if end == 1 && len(toks) > 1 {
		if _, ok := legalForms[toks[0]]; ok {
			end = len(toks)
		}
	}
	return toks[:end]
}

// SortedKey joins the sorted tokens of name with single spaces.
func SortedKey(name string) string {
	toks := Tokens(name)
	slices.Sort(toks)
	return strings.Join(toks, " ")
}

// TokenSortScorer is the default scorer: an indel similarity ratio over
// token-sorted keys, so word order does not affect the score.
type TokenSortScorer struct{}

func (TokenSortScorer) Name() string { return "token_sort" }

func (TokenSortScorer) Key(name string) string { return SortedKey(name) }

func (TokenSortScorer) Compare(a, b string) int { return Ratio(a, b) }

func (TokenSortScorer) Bound(lenA, lenB int) int {
	if lenA == 0 || lenB == 0 {
		return 0
	}
	return percent(2*min(lenA, lenB), lenA+lenB)
}

// LevenshteinScorer scores token-sorted keys by normalized edit distance.
type LevenshteinScorer struct{}

func (LevenshteinScorer) Name() string { return "levenshtein" }

func (LevenshteinScorer) Key(name string) string { return SortedKey(name) }

func (LevenshteinScorer) Compare(a, b string) int {
	la, lb := runeLen(a), runeLen(b)
	if la == 0 || lb == 0 {
		return 0
	}
	longest := max(la, lb)
	return percent(longest-levenshtein.ComputeDistance(a, b), longest)
}

func (LevenshteinScorer) Bound(lenA, lenB int) int {
	if lenA == 0 || lenB == 0 {
		return 0
	}
	return percent(min(lenA, lenB), max(lenA, lenB))
}

// ParseScorer resolves a configured scorer name. An empty name is the token
// sort scorer.
func ParseScorer(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "token_sort":
		return TokenSortScorer{}, nil
	case "levenshtein":
		return LevenshteinScorer{}, nil
	}
	return nil, fmt.Errorf("unknown scorer %q", name)
}

// TokenSortRatio scores two raw names with the default scorer.
func TokenSortRatio(a, b string) int {
	return Ratio(SortedKey(a), SortedKey(b))
}

// Ratio is the indel similarity of a and b: the share of characters left in
// place when turning one into the other with insertions and deletions only.
// Either string being empty scores 0.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	if a == b {
		return 100
	}
	return percent(2*lcsLength(ra, rb), total)
}

// lcsLength returns the length of the longest common subsequence.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// percent rounds 100*num/den half away from zero.
func percent(num, den int) int {
	return int(math.Round(100 * float64(num) / float64(den)))
}

func runeLen(s string) int {
	return len([]rune(s))
}
